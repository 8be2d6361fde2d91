package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	apperrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

// BookingRepository persists bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, talent_id, company_id, week_id, day_of_week, shift, booking_date, start_time, end_time, status, created_at, updated_at`

// TryReserveSlot inserts the booking only while the company still has
// capacity left on that (week, day, shift). The capacity check and the
// insert run in one statement, so two concurrent reservations for the
// last seat cannot both land. Returns false when capacity is exhausted
// and ErrSlotTaken when the talent already holds that exact slot.
func (r *BookingRepository) TryReserveSlot(ctx context.Context, booking *models.Booking, capacity int) (bool, error) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	const query = `INSERT INTO bookings (id, talent_id, company_id, week_id, day_of_week, shift, booking_date, start_time, end_time, status, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		WHERE (SELECT COUNT(*) FROM bookings WHERE company_id = $3 AND week_id = $4 AND day_of_week = $5 AND shift = $6) < $13`

	result, err := r.db.ExecContext(ctx, query,
		booking.ID, booking.TalentID, booking.CompanyID, booking.WeekID,
		booking.DayOfWeek, booking.Shift, booking.BookingDate,
		booking.StartTime, booking.EndTime, booking.Status,
		booking.CreatedAt, booking.UpdatedAt, capacity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return false, apperrors.ErrSlotTaken
		}
		return false, fmt.Errorf("reserve slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve slot rows: %w", err)
	}
	return rows == 1, nil
}

// CountForTalentWeek counts the talent's bookings in the week.
func (r *BookingRepository) CountForTalentWeek(ctx context.Context, talentID, weekID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE talent_id = $1 AND week_id = $2`, talentID, weekID); err != nil {
		return 0, fmt.Errorf("count talent bookings: %w", err)
	}
	return count, nil
}

// ListByWeek returns every booking of a week joined with names,
// ordered for the calendar projection.
func (r *BookingRepository) ListByWeek(ctx context.Context, weekID string) ([]models.BookingDetail, error) {
	const query = `SELECT b.id, b.talent_id, b.company_id, b.week_id, b.day_of_week, b.shift, b.booking_date, b.start_time, b.end_time, b.status, b.created_at, b.updated_at, t.full_name AS talent_name, c.name AS company_name
		FROM bookings b
		JOIN talents t ON t.id = b.talent_id
		JOIN companies c ON c.id = b.company_id
		WHERE b.week_id = $1
		ORDER BY c.name ASC, b.day_of_week ASC, b.shift ASC, t.full_name ASC`
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, weekID); err != nil {
		return nil, fmt.Errorf("list week bookings: %w", err)
	}
	return bookings, nil
}

// ListByTalentWeek returns the talent's bookings in the week.
func (r *BookingRepository) ListByTalentWeek(ctx context.Context, talentID, weekID string) ([]models.BookingDetail, error) {
	const query = `SELECT b.id, b.talent_id, b.company_id, b.week_id, b.day_of_week, b.shift, b.booking_date, b.start_time, b.end_time, b.status, b.created_at, b.updated_at, t.full_name AS talent_name, c.name AS company_name
		FROM bookings b
		JOIN talents t ON t.id = b.talent_id
		JOIN companies c ON c.id = b.company_id
		WHERE b.talent_id = $1 AND b.week_id = $2
		ORDER BY b.day_of_week ASC, b.shift ASC`
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, talentID, weekID); err != nil {
		return nil, fmt.Errorf("list talent bookings: %w", err)
	}
	return bookings, nil
}

// List returns bookings matching the filter with pagination.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.WeekID != "" {
		conditions = append(conditions, fmt.Sprintf("b.week_id = $%d", argPos))
		args = append(args, filter.WeekID)
		argPos++
	}
	if filter.TalentID != "" {
		conditions = append(conditions, fmt.Sprintf("b.talent_id = $%d", argPos))
		args = append(args, filter.TalentID)
		argPos++
	}
	if filter.CompanyID != "" {
		conditions = append(conditions, fmt.Sprintf("b.company_id = $%d", argPos))
		args = append(args, filter.CompanyID)
		argPos++
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("b.day_of_week = $%d", argPos))
		args = append(args, strings.ToUpper(filter.DayOfWeek))
		argPos++
	}
	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("b.shift = $%d", argPos))
		args = append(args, strings.ToUpper(filter.Shift))
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bookings b %s`, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 || size > 100 {
		size = 20
	}

	allowedSorts := map[string]string{
		"booking_date": "b.booking_date",
		"created_at":   "b.created_at",
	}
	orderBy, ok := allowedSorts[filter.SortBy]
	if !ok {
		orderBy = "b.booking_date"
	}
	direction := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT b.id, b.talent_id, b.company_id, b.week_id, b.day_of_week, b.shift, b.booking_date, b.start_time, b.end_time, b.status, b.created_at, b.updated_at, t.full_name AS talent_name, c.name AS company_name
		FROM bookings b
		JOIN talents t ON t.id = b.talent_id
		JOIN companies c ON c.id = b.company_id
		%s ORDER BY %s %s, b.day_of_week ASC LIMIT $%d OFFSET $%d`, whereClause, orderBy, direction, argPos, argPos+1)
	args = append(args, size, (page-1)*size)

	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}

// FindByID loads a booking by id.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Delete removes a booking by id.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
