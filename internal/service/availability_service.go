package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type availabilityRepository interface {
	ListByTalent(ctx context.Context, talentID string) ([]models.TalentAvailabilitySlot, error)
	ReplaceForTalent(ctx context.Context, talentID string, slots []models.TalentAvailabilitySlot) error
	ListByCompany(ctx context.Context, companyID string) ([]models.CompanyAvailabilitySlot, error)
	UpsertCompanySlot(ctx context.Context, slot *models.CompanyAvailabilitySlot) error
	DeleteCompanySlot(ctx context.Context, companyID, slotID string) error
}

type availabilityTalentRepo interface {
	FindByID(ctx context.Context, id string) (*models.Talent, error)
}

type availabilityCompanyRepo interface {
	FindByID(ctx context.Context, id string) (*models.Company, error)
}

// AvailabilitySlotInput is one declared (day, shift) window. Times are
// optional; empty values resolve to the canonical shift window.
type AvailabilitySlotInput struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	Shift     string `json:"shift" validate:"required"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// DeclareAvailabilityRequest replaces a talent's full weekly declaration.
type DeclareAvailabilityRequest struct {
	Slots []AvailabilitySlotInput `json:"slots" validate:"required,dive"`
}

// UpsertCompanySlotRequest declares or updates one company demand slot.
type UpsertCompanySlotRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	Shift     string `json:"shift" validate:"required"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Capacity  int    `json:"capacity" validate:"gte=0"`
}

// AvailabilityService manages talent declarations and company demand slots.
type AvailabilityService struct {
	repo      availabilityRepository
	talents   availabilityTalentRepo
	companies availabilityCompanyRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, talents availabilityTalentRepo, companies availabilityCompanyRepo, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, talents: talents, companies: companies, validator: validate, logger: logger}
}

// ListForTalent returns the talent's current declaration.
func (s *AvailabilityService) ListForTalent(ctx context.Context, talentID string) ([]models.TalentAvailabilitySlot, error) {
	if err := s.ensureTalent(ctx, talentID); err != nil {
		return nil, err
	}
	slots, err := s.repo.ListByTalent(ctx, talentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return slots, nil
}

// Declare replaces the talent's weekly availability wholesale.
// Duplicate (day, shift) pairs in the payload collapse to one slot.
func (s *AvailabilityService) Declare(ctx context.Context, talentID string, req DeclareAvailabilityRequest) ([]models.TalentAvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if err := s.ensureTalent(ctx, talentID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.Slots))
	slots := make([]models.TalentAvailabilitySlot, 0, len(req.Slots))
	for _, input := range req.Slots {
		day, ok := models.ParseDayOfWeek(input.DayOfWeek)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid day of week %q", input.DayOfWeek))
		}
		shift, ok := models.ParseShift(input.Shift)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid shift %q", input.Shift))
		}
		key := string(day) + "|" + string(shift)
		if seen[key] {
			continue
		}
		seen[key] = true

		window := shift.Window()
		start, end := input.StartTime, input.EndTime
		if start == "" {
			start = window.Start
		}
		if end == "" {
			end = window.End
		}
		slots = append(slots, models.TalentAvailabilitySlot{
			TalentID:  talentID,
			DayOfWeek: day,
			Shift:     shift,
			StartTime: start,
			EndTime:   end,
		})
	}

	if err := s.repo.ReplaceForTalent(ctx, talentID, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store availability")
	}
	s.logger.Info("availability declared", zap.String("talent_id", talentID), zap.Int("slots", len(slots)))
	return slots, nil
}

// ListForCompany returns a company's declared demand slots.
func (s *AvailabilityService) ListForCompany(ctx context.Context, companyID string) ([]models.CompanyAvailabilitySlot, error) {
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}
	slots, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list company slots")
	}
	return slots, nil
}

// UpsertCompanySlot declares or updates a company's (day, shift) demand.
func (s *AvailabilityService) UpsertCompanySlot(ctx context.Context, companyID string, req UpsertCompanySlotRequest) (*models.CompanyAvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}

	day, ok := models.ParseDayOfWeek(req.DayOfWeek)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid day of week %q", req.DayOfWeek))
	}
	shift, ok := models.ParseShift(req.Shift)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid shift %q", req.Shift))
	}

	window := shift.Window()
	start, end := req.StartTime, req.EndTime
	if start == "" {
		start = window.Start
	}
	if end == "" {
		end = window.End
	}

	slot := &models.CompanyAvailabilitySlot{
		CompanyID: companyID,
		DayOfWeek: day,
		Shift:     shift,
		StartTime: start,
		EndTime:   end,
		Capacity:  req.Capacity,
	}
	if err := s.repo.UpsertCompanySlot(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store company slot")
	}
	return slot, nil
}

// DeleteCompanySlot removes one company demand slot.
func (s *AvailabilityService) DeleteCompanySlot(ctx context.Context, companyID, slotID string) error {
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return err
	}
	if err := s.repo.DeleteCompanySlot(ctx, companyID, slotID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete company slot")
	}
	return nil
}

func (s *AvailabilityService) ensureTalent(ctx context.Context, talentID string) error {
	if _, err := s.talents.FindByID(ctx, talentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "talent not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load talent")
	}
	return nil
}

func (s *AvailabilityService) ensureCompany(ctx context.Context, companyID string) error {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "company not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load company")
	}
	return nil
}
