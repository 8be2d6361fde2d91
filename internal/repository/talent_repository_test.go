package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
)

func newTalentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func talentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "full_name", "email", "phone", "active", "max_weekly_bookings", "created_at", "updated_at"}).
		AddRow("t1", nil, "Ana", "ana@example.com", nil, true, 2, time.Now(), time.Now())
}

func TestTalentList(t *testing.T) {
	db, mock, cleanup := newTalentMock(t)
	defer cleanup()
	repo := NewTalentRepository(db)

	active := true
	mock.ExpectQuery("SELECT id, user_id, .* FROM talents WHERE 1=1 AND active").
		WithArgs(true).
		WillReturnRows(talentRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM talents WHERE 1=1 AND active").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	talents, total, err := repo.List(context.Background(), models.TalentFilter{Active: &active})
	require.NoError(t, err)
	assert.Len(t, talents, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTalentListRejectsUnknownSort(t *testing.T) {
	db, mock, cleanup := newTalentMock(t)
	defer cleanup()
	repo := NewTalentRepository(db)

	mock.ExpectQuery("SELECT id, user_id, .* FROM talents WHERE 1=1 ORDER BY created_at DESC").
		WillReturnRows(talentRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM talents WHERE 1=1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), models.TalentFilter{SortBy: "active; DROP TABLE talents"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTalentListActive(t *testing.T) {
	db, mock, cleanup := newTalentMock(t)
	defer cleanup()
	repo := NewTalentRepository(db)

	mock.ExpectQuery("SELECT id, user_id, .* FROM talents WHERE active = TRUE").
		WillReturnRows(talentRows())

	talents, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, talents, 1)
	assert.Equal(t, "Ana", talents[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTalentCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newTalentMock(t)
	defer cleanup()
	repo := NewTalentRepository(db)

	mock.ExpectExec("INSERT INTO talents").
		WithArgs(sqlmock.AnyArg(), nil, "Ana", "ana@example.com", nil, true, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	talent := &models.Talent{FullName: "Ana", Email: "ana@example.com", Active: true, MaxWeeklyBookings: 2}
	err := repo.Create(context.Background(), talent)
	require.NoError(t, err)
	assert.NotEmpty(t, talent.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTalentDeactivate(t *testing.T) {
	db, mock, cleanup := newTalentMock(t)
	defer cleanup()
	repo := NewTalentRepository(db)

	mock.ExpectExec("UPDATE talents SET active = FALSE").
		WithArgs("t1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
