package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type talentRepository interface {
	List(ctx context.Context, filter models.TalentFilter) ([]models.Talent, int, error)
	FindByID(ctx context.Context, id string) (*models.Talent, error)
	FindByUserID(ctx context.Context, userID string) (*models.Talent, error)
	Create(ctx context.Context, talent *models.Talent) error
	Update(ctx context.Context, talent *models.Talent) error
	Deactivate(ctx context.Context, id string) error
}

// CreateTalentRequest describes payload for registering a talent.
type CreateTalentRequest struct {
	FullName          string  `json:"full_name" validate:"required"`
	Email             string  `json:"email" validate:"required,email"`
	Phone             *string `json:"phone,omitempty"`
	UserID            *string `json:"user_id,omitempty"`
	MaxWeeklyBookings int     `json:"max_weekly_bookings" validate:"gte=0,lte=7"`
}

// UpdateTalentRequest updates an existing talent.
type UpdateTalentRequest struct {
	FullName          string  `json:"full_name" validate:"required"`
	Email             string  `json:"email" validate:"required,email"`
	Phone             *string `json:"phone,omitempty"`
	Active            *bool   `json:"active,omitempty"`
	MaxWeeklyBookings int     `json:"max_weekly_bookings" validate:"gte=0,lte=7"`
}

// TalentService manages the talent roster.
type TalentService struct {
	repo      talentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTalentService instantiates TalentService.
func NewTalentService(repo talentRepository, validate *validator.Validate, logger *zap.Logger) *TalentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TalentService{repo: repo, validator: validate, logger: logger}
}

// List returns talents with pagination metadata.
func (s *TalentService) List(ctx context.Context, filter models.TalentFilter) ([]models.Talent, *models.Pagination, error) {
	talents, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list talents")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return talents, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one talent.
func (s *TalentService) Get(ctx context.Context, id string) (*models.Talent, error) {
	talent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "talent not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load talent")
	}
	return talent, nil
}

// GetByUserID resolves the talent linked to an authenticated user.
func (s *TalentService) GetByUserID(ctx context.Context, userID string) (*models.Talent, error) {
	talent, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no talent profile linked to this account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load talent")
	}
	return talent, nil
}

// Create registers a new talent.
func (s *TalentService) Create(ctx context.Context, req CreateTalentRequest) (*models.Talent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid talent payload")
	}

	talent := &models.Talent{
		UserID:            req.UserID,
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		Active:            true,
		MaxWeeklyBookings: req.MaxWeeklyBookings,
	}
	if err := s.repo.Create(ctx, talent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create talent")
	}
	s.logger.Info("talent created", zap.String("talent_id", talent.ID))
	return talent, nil
}

// Update modifies an existing talent.
func (s *TalentService) Update(ctx context.Context, id string, req UpdateTalentRequest) (*models.Talent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid talent payload")
	}

	talent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	talent.FullName = req.FullName
	talent.Email = req.Email
	talent.Phone = req.Phone
	talent.MaxWeeklyBookings = req.MaxWeeklyBookings
	if req.Active != nil {
		talent.Active = *req.Active
	}

	if err := s.repo.Update(ctx, talent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update talent")
	}
	return talent, nil
}

// Deactivate soft-removes the talent from the roster.
func (s *TalentService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate talent")
	}
	s.logger.Info("talent deactivated", zap.String("talent_id", id))
	return nil
}
