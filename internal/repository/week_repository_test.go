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

func newWeekMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func weekRows(start time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "created_at"}).
		AddRow("w1", "Week 2026-08-24", start, start.AddDate(0, 0, 6), time.Now())
}

func TestWeekFindOrCreate(t *testing.T) {
	db, mock, cleanup := newWeekMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	start := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO weeks").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, name, start_date, end_date, created_at FROM weeks WHERE start_date").
		WithArgs(start).
		WillReturnRows(weekRows(start))

	week, err := repo.FindOrCreate(context.Background(), models.NewWeek(start))
	require.NoError(t, err)
	assert.Equal(t, "w1", week.ID)
	assert.Equal(t, start, week.StartDate.UTC())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekFindOrCreateLosesInsertRace(t *testing.T) {
	db, mock, cleanup := newWeekMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	start := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)

	// Another instance inserted first; the conflict is ignored and the
	// winner's row is returned.
	mock.ExpectExec("INSERT INTO weeks").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, name, start_date, end_date, created_at FROM weeks WHERE start_date").
		WithArgs(start).
		WillReturnRows(weekRows(start))

	week, err := repo.FindOrCreate(context.Background(), models.NewWeek(start))
	require.NoError(t, err)
	assert.Equal(t, "w1", week.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekCurrentMissing(t *testing.T) {
	db, mock, cleanup := newWeekMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	mock.ExpectQuery("SELECT id, name, start_date, end_date, created_at FROM weeks WHERE start_date").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "created_at"}))

	week, err := repo.Current(context.Background(), time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, week)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekList(t *testing.T) {
	db, mock, cleanup := newWeekMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	start := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM weeks").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, name, start_date, end_date, created_at FROM weeks ORDER BY start_date DESC").
		WithArgs(20, 0).
		WillReturnRows(weekRows(start))

	weeks, total, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, weeks, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
