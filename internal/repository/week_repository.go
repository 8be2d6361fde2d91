package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
)

// WeekRepository persists booking weeks.
type WeekRepository struct {
	db *sqlx.DB
}

// NewWeekRepository creates a new week repository.
func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

const weekColumns = `id, name, start_date, end_date, created_at`

// FindOrCreate returns the week anchored at startDate, creating it when
// absent. The insert races safely across instances: ON CONFLICT DO
// NOTHING followed by a re-select keeps exactly one row per start date.
func (r *WeekRepository) FindOrCreate(ctx context.Context, week *models.Week) (*models.Week, error) {
	if week.ID == "" {
		week.ID = uuid.NewString()
	}
	if week.CreatedAt.IsZero() {
		week.CreatedAt = time.Now().UTC()
	}
	const insert = `INSERT INTO weeks (id, name, start_date, end_date, created_at) VALUES (:id, :name, :start_date, :end_date, :created_at) ON CONFLICT (start_date) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, insert, week); err != nil {
		return nil, fmt.Errorf("insert week: %w", err)
	}
	return r.FindByStartDate(ctx, week.StartDate)
}

// FindByID loads a week by id.
func (r *WeekRepository) FindByID(ctx context.Context, id string) (*models.Week, error) {
	query := fmt.Sprintf(`SELECT %s FROM weeks WHERE id = $1`, weekColumns)
	var week models.Week
	if err := r.db.GetContext(ctx, &week, query, id); err != nil {
		return nil, err
	}
	return &week, nil
}

// FindByStartDate loads the week anchored at the given Monday.
func (r *WeekRepository) FindByStartDate(ctx context.Context, startDate time.Time) (*models.Week, error) {
	query := fmt.Sprintf(`SELECT %s FROM weeks WHERE start_date = $1`, weekColumns)
	var week models.Week
	if err := r.db.GetContext(ctx, &week, query, startDate); err != nil {
		return nil, err
	}
	return &week, nil
}

// Current returns the week containing the given instant, or nil when
// no week row has been created for it yet.
func (r *WeekRepository) Current(ctx context.Context, at time.Time) (*models.Week, error) {
	week, err := r.FindByStartDate(ctx, models.WeekStartFor(at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return week, nil
}

// List returns weeks newest first with simple pagination.
func (r *WeekRepository) List(ctx context.Context, page, size int) ([]models.Week, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM weeks`); err != nil {
		return nil, 0, fmt.Errorf("count weeks: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM weeks ORDER BY start_date DESC LIMIT $1 OFFSET $2`, weekColumns)
	var weeks []models.Week
	if err := r.db.SelectContext(ctx, &weeks, query, size, (page-1)*size); err != nil {
		return nil, 0, fmt.Errorf("list weeks: %w", err)
	}
	return weeks, total, nil
}
