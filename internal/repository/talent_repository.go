package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
)

// TalentRepository provides persistence for talents.
type TalentRepository struct {
	db *sqlx.DB
}

// NewTalentRepository creates a new talent repository.
func NewTalentRepository(db *sqlx.DB) *TalentRepository {
	return &TalentRepository{db: db}
}

const talentColumns = "id, user_id, full_name, email, phone, active, max_weekly_bookings, created_at, updated_at"

// List returns talents with optional filtering and pagination.
func (r *TalentRepository) List(ctx context.Context, filter models.TalentFilter) ([]models.Talent, int, error) {
	base := "FROM talents WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"full_name":  true,
		"email":      true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", talentColumns, base, sortBy, order, size, offset)
	var talents []models.Talent
	if err := r.db.SelectContext(ctx, &talents, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list talents: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count talents: %w", err)
	}

	return talents, total, nil
}

// ListActive returns every active talent in storage order, the iteration
// order used by the batch allocation sweep.
func (r *TalentRepository) ListActive(ctx context.Context) ([]models.Talent, error) {
	query := fmt.Sprintf("SELECT %s FROM talents WHERE active = TRUE", talentColumns)
	var talents []models.Talent
	if err := r.db.SelectContext(ctx, &talents, query); err != nil {
		return nil, fmt.Errorf("list active talents: %w", err)
	}
	return talents, nil
}

// FindByID loads a talent by id.
func (r *TalentRepository) FindByID(ctx context.Context, id string) (*models.Talent, error) {
	query := fmt.Sprintf("SELECT %s FROM talents WHERE id = $1", talentColumns)
	var talent models.Talent
	if err := r.db.GetContext(ctx, &talent, query, id); err != nil {
		return nil, err
	}
	return &talent, nil
}

// FindByUserID resolves the talent record owned by a user account.
func (r *TalentRepository) FindByUserID(ctx context.Context, userID string) (*models.Talent, error) {
	query := fmt.Sprintf("SELECT %s FROM talents WHERE user_id = $1", talentColumns)
	var talent models.Talent
	if err := r.db.GetContext(ctx, &talent, query, userID); err != nil {
		return nil, err
	}
	return &talent, nil
}

// Create stores a new talent record.
func (r *TalentRepository) Create(ctx context.Context, talent *models.Talent) error {
	if talent.ID == "" {
		talent.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if talent.CreatedAt.IsZero() {
		talent.CreatedAt = now
	}
	talent.UpdatedAt = now

	const query = `INSERT INTO talents (id, user_id, full_name, email, phone, active, max_weekly_bookings, created_at, updated_at) VALUES (:id, :user_id, :full_name, :email, :phone, :active, :max_weekly_bookings, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, talent); err != nil {
		return fmt.Errorf("create talent: %w", err)
	}
	return nil
}

// Update modifies a talent record.
func (r *TalentRepository) Update(ctx context.Context, talent *models.Talent) error {
	talent.UpdatedAt = time.Now().UTC()
	const query = `UPDATE talents SET full_name = :full_name, email = :email, phone = :phone, active = :active, max_weekly_bookings = :max_weekly_bookings, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, talent); err != nil {
		return fmt.Errorf("update talent: %w", err)
	}
	return nil
}

// Deactivate soft-disables a talent without deleting history.
func (r *TalentRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE talents SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate talent: %w", err)
	}
	return nil
}
