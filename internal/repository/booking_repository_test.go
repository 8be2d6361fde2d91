package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	apperrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

func newBookingMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func testBooking() *models.Booking {
	return &models.Booking{
		TalentID:    "t1",
		CompanyID:   "c1",
		WeekID:      "w1",
		DayOfWeek:   models.DayMonday,
		Shift:       models.ShiftMorning,
		BookingDate: time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "13:00",
		Status:      models.BookingStatusActive,
	}
}

func TestTryReserveSlotReserves(t *testing.T) {
	db, mock, cleanup := newBookingMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(sqlmock.AnyArg(), "t1", "c1", "w1", models.DayMonday, models.ShiftMorning,
			sqlmock.AnyArg(), "09:00", "13:00", models.BookingStatusActive,
			sqlmock.AnyArg(), sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking := testBooking()
	reserved, err := repo.TryReserveSlot(context.Background(), booking, 2)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.NotEmpty(t, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryReserveSlotCapacityFull(t *testing.T) {
	db, mock, cleanup := newBookingMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	reserved, err := repo.TryReserveSlot(context.Background(), testBooking(), 1)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryReserveSlotDuplicate(t *testing.T) {
	db, mock, cleanup := newBookingMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.TryReserveSlot(context.Background(), testBooking(), 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSlotTaken.Code, apperrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountForTalentWeek(t *testing.T) {
	db, mock, cleanup := newBookingMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE talent_id").
		WithArgs("t1", "w1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountForTalentWeek(context.Background(), "t1", "w1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func bookingDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "talent_id", "company_id", "week_id", "day_of_week", "shift",
		"booking_date", "start_time", "end_time", "status", "created_at", "updated_at",
		"talent_name", "company_name",
	}).AddRow("b1", "t1", "c1", "w1", "MONDAY", "MORNING",
		time.Now(), "09:00", "13:00", "ACTIVE", time.Now(), time.Now(),
		"Ana", "Acme")
}

func TestBookingListByWeek(t *testing.T) {
	db, mock, cleanup := newBookingMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("(?s)SELECT b.id, .*FROM bookings b.*ORDER BY c.name").
		WithArgs("w1").
		WillReturnRows(bookingDetailRows())

	bookings, err := repo.ListByWeek(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Ana", bookings[0].TalentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListFiltersAndPaginates(t *testing.T) {
	db, mock, cleanup := newBookingMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings b").
		WithArgs("w1", "MONDAY").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("(?s)SELECT b.id, .*FROM bookings b.*LIMIT").
		WithArgs("w1", "MONDAY", 20, 0).
		WillReturnRows(bookingDetailRows())

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{WeekID: "w1", DayOfWeek: "monday"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, bookings, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingDeleteMissing(t *testing.T) {
	db, mock, cleanup := newBookingMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("DELETE FROM bookings WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
