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

// ResetRepository records runs of the weekly availability reset.
type ResetRepository struct {
	db *sqlx.DB
}

// NewResetRepository creates a new reset repository.
func NewResetRepository(db *sqlx.DB) *ResetRepository {
	return &ResetRepository{db: db}
}

// LastRun returns the most recent reset record, or nil when the sweep
// has never run.
func (r *ResetRepository) LastRun(ctx context.Context) (*models.AvailabilityReset, error) {
	const query = `SELECT id, week_start, archived_count, ran_at FROM availability_resets ORDER BY ran_at DESC LIMIT 1`
	var reset models.AvailabilityReset
	if err := r.db.GetContext(ctx, &reset, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load last reset: %w", err)
	}
	return &reset, nil
}

// HasRunForWeek reports whether a reset was already recorded for the week.
func (r *ResetRepository) HasRunForWeek(ctx context.Context, weekStart time.Time) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM availability_resets WHERE week_start = $1`, weekStart); err != nil {
		return false, fmt.Errorf("check reset run: %w", err)
	}
	return count > 0, nil
}

// RecordRun archives all talent availability and persists the run
// record in a single transaction, so a crash mid-sweep never leaves the
// slots gone with no trace of the reset.
func (r *ResetRepository) RecordRun(ctx context.Context, weekStart time.Time, archive func(ctx context.Context, tx *sqlx.Tx, weekStart time.Time) (int, error)) (*models.AvailabilityReset, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reset run: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	archived, err := archive(ctx, tx, weekStart)
	if err != nil {
		return nil, err
	}

	reset := &models.AvailabilityReset{
		ID:            uuid.NewString(),
		WeekStart:     weekStart,
		ArchivedCount: archived,
		RanAt:         time.Now().UTC(),
	}
	if _, err = tx.NamedExecContext(ctx, `INSERT INTO availability_resets (id, week_start, archived_count, ran_at) VALUES (:id, :week_start, :archived_count, :ran_at)`, reset); err != nil {
		return nil, fmt.Errorf("record reset run: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reset run: %w", err)
	}
	return reset, nil
}

// History lists reset runs newest first.
func (r *ResetRepository) History(ctx context.Context, limit int) ([]models.AvailabilityReset, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	const query = `SELECT id, week_start, archived_count, ran_at FROM availability_resets ORDER BY ran_at DESC LIMIT $1`
	var resets []models.AvailabilityReset
	if err := r.db.SelectContext(ctx, &resets, query, limit); err != nil {
		return nil, fmt.Errorf("list reset history: %w", err)
	}
	return resets, nil
}
