package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
)

// AvailabilityRepository persists talent and company availability slots.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByTalent returns the talent's declared slots ordered by day/shift.
func (r *AvailabilityRepository) ListByTalent(ctx context.Context, talentID string) ([]models.TalentAvailabilitySlot, error) {
	const query = `SELECT id, talent_id, day_of_week, shift, start_time, end_time, created_at FROM talent_availability_slots WHERE talent_id = $1 ORDER BY day_of_week ASC, shift ASC`
	var slots []models.TalentAvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, talentID); err != nil {
		return nil, fmt.Errorf("list talent availability: %w", err)
	}
	return slots, nil
}

// ReplaceForTalent swaps the talent's full slot set in one transaction.
// Availability is declared wholesale, never patched row by row.
func (r *AvailabilityRepository) ReplaceForTalent(ctx context.Context, talentID string, slots []models.TalentAvailabilitySlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace availability: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM talent_availability_slots WHERE talent_id = $1`, talentID); err != nil {
		return fmt.Errorf("clear talent availability: %w", err)
	}

	now := time.Now().UTC()
	for i := range slots {
		slot := slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		slot.TalentID = talentID
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, `INSERT INTO talent_availability_slots (id, talent_id, day_of_week, shift, start_time, end_time, created_at) VALUES (:id, :talent_id, :day_of_week, :shift, :start_time, :end_time, :created_at)`, &slot); err != nil {
			return fmt.Errorf("insert talent availability: %w", err)
		}
		slots[i] = slot
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace availability: %w", err)
	}
	return nil
}

// ListCompanySlotCatalog returns every active company's declared slots
// joined with the parent company, the allocator's candidate universe.
func (r *AvailabilityRepository) ListCompanySlotCatalog(ctx context.Context) ([]models.CompanySlotDetail, error) {
	const query = `SELECT s.id, s.company_id, s.day_of_week, s.shift, s.start_time, s.end_time, s.capacity, s.created_at, c.name AS company_name, c.active AS company_active FROM company_availability_slots s JOIN companies c ON c.id = s.company_id WHERE c.active = TRUE ORDER BY c.name ASC, s.company_id ASC, s.day_of_week ASC, s.shift ASC`
	var slots []models.CompanySlotDetail
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list company slot catalog: %w", err)
	}
	return slots, nil
}

// ListTalentSlotCatalog returns every active talent's declared slots
// joined with the owner, the projector's availability universe.
func (r *AvailabilityRepository) ListTalentSlotCatalog(ctx context.Context) ([]models.TalentSlotDetail, error) {
	const query = `SELECT s.id, s.talent_id, s.day_of_week, s.shift, s.start_time, s.end_time, s.created_at, t.full_name AS talent_name, t.active AS talent_active FROM talent_availability_slots s JOIN talents t ON t.id = s.talent_id WHERE t.active = TRUE ORDER BY t.full_name ASC, s.day_of_week ASC, s.shift ASC`
	var slots []models.TalentSlotDetail
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list talent slot catalog: %w", err)
	}
	return slots, nil
}

// ListByCompany returns one company's declared slots.
func (r *AvailabilityRepository) ListByCompany(ctx context.Context, companyID string) ([]models.CompanyAvailabilitySlot, error) {
	const query = `SELECT id, company_id, day_of_week, shift, start_time, end_time, capacity, created_at FROM company_availability_slots WHERE company_id = $1 ORDER BY day_of_week ASC, shift ASC`
	var slots []models.CompanyAvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, companyID); err != nil {
		return nil, fmt.Errorf("list company availability: %w", err)
	}
	return slots, nil
}

// FindCompanySlot loads the slot a company declared for a (day, shift).
func (r *AvailabilityRepository) FindCompanySlot(ctx context.Context, companyID string, day models.DayOfWeek, shift models.Shift) (*models.CompanyAvailabilitySlot, error) {
	const query = `SELECT id, company_id, day_of_week, shift, start_time, end_time, capacity, created_at FROM company_availability_slots WHERE company_id = $1 AND day_of_week = $2 AND shift = $3`
	var slot models.CompanyAvailabilitySlot
	if err := r.db.GetContext(ctx, &slot, query, companyID, day, shift); err != nil {
		return nil, err
	}
	return &slot, nil
}

// UpsertCompanySlot creates or updates a company's slot for a (day, shift).
func (r *AvailabilityRepository) UpsertCompanySlot(ctx context.Context, slot *models.CompanyAvailabilitySlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO company_availability_slots (id, company_id, day_of_week, shift, start_time, end_time, capacity, created_at) VALUES (:id, :company_id, :day_of_week, :shift, :start_time, :end_time, :capacity, :created_at) ON CONFLICT (company_id, day_of_week, shift) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, capacity = EXCLUDED.capacity`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("upsert company slot: %w", err)
	}
	return nil
}

// DeleteCompanySlot removes a company's slot by id.
func (r *AvailabilityRepository) DeleteCompanySlot(ctx context.Context, companyID, slotID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM company_availability_slots WHERE id = $1 AND company_id = $2`, slotID, companyID); err != nil {
		return fmt.Errorf("delete company slot: %w", err)
	}
	return nil
}

// ArchiveAllTalentSlots moves every talent availability row into the
// archive table and removes the originals, both inside the caller's
// transaction. Returns the number of archived rows.
func (r *AvailabilityRepository) ArchiveAllTalentSlots(ctx context.Context, tx *sqlx.Tx, weekStart time.Time) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	result, err := tx.ExecContext(ctx, `INSERT INTO talent_availability_archive (id, talent_id, day_of_week, shift, start_time, end_time, created_at, week_start, archived_at) SELECT id, talent_id, day_of_week, shift, start_time, end_time, created_at, $1, NOW() FROM talent_availability_slots`, weekStart)
	if err != nil {
		return 0, fmt.Errorf("archive talent availability: %w", err)
	}
	archived, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count archived availability: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM talent_availability_slots`); err != nil {
		return 0, fmt.Errorf("clear talent availability: %w", err)
	}
	return int(archived), nil
}
