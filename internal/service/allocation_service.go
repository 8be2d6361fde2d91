package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/dto"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/config"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type allocationTalentRepo interface {
	FindByID(ctx context.Context, id string) (*models.Talent, error)
	ListActive(ctx context.Context) ([]models.Talent, error)
}

type allocationCompanyRepo interface {
	FindByID(ctx context.Context, id string) (*models.Company, error)
}

type allocationAvailabilityRepo interface {
	ListByTalent(ctx context.Context, talentID string) ([]models.TalentAvailabilitySlot, error)
	ListCompanySlotCatalog(ctx context.Context) ([]models.CompanySlotDetail, error)
	FindCompanySlot(ctx context.Context, companyID string, day models.DayOfWeek, shift models.Shift) (*models.CompanyAvailabilitySlot, error)
}

type allocationWeekRepo interface {
	FindOrCreate(ctx context.Context, week *models.Week) (*models.Week, error)
	FindByID(ctx context.Context, id string) (*models.Week, error)
}

type allocationBookingRepo interface {
	TryReserveSlot(ctx context.Context, booking *models.Booking, capacity int) (bool, error)
	CountForTalentWeek(ctx context.Context, talentID, weekID string) (int, error)
}

// ShuffleFunc permutes n elements through swap. Injecting it keeps the
// candidate ordering deterministic under test.
type ShuffleFunc func(n int, swap func(i, j int))

// NewSeededShuffle builds a ShuffleFunc backed by math/rand. A zero
// seed falls back to the clock. The returned func is safe for
// concurrent callers.
func NewSeededShuffle(seed int64) ShuffleFunc {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return func(n int, swap func(i, j int)) {
		mu.Lock()
		defer mu.Unlock()
		rng.Shuffle(n, swap)
	}
}

// AllocationService runs the weekly availability matching pipeline:
// eligibility checks, candidate matching, shuffled quota selection and
// capacity-checked reservation.
type AllocationService struct {
	talents      allocationTalentRepo
	companies    allocationCompanyRepo
	availability allocationAvailabilityRepo
	weeks        allocationWeekRepo
	bookings     allocationBookingRepo
	cache        *CacheService
	metrics      *MetricsService
	cfg          config.AllocatorConfig
	shuffle      ShuffleFunc
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAllocationService instantiates AllocationService.
func NewAllocationService(
	talents allocationTalentRepo,
	companies allocationCompanyRepo,
	availability allocationAvailabilityRepo,
	weeks allocationWeekRepo,
	bookings allocationBookingRepo,
	cache *CacheService,
	metrics *MetricsService,
	cfg config.AllocatorConfig,
	shuffle ShuffleFunc,
	validate *validator.Validate,
	logger *zap.Logger,
) *AllocationService {
	if shuffle == nil {
		shuffle = NewSeededShuffle(cfg.Seed)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{
		talents:      talents,
		companies:    companies,
		availability: availability,
		weeks:        weeks,
		bookings:     bookings,
		cache:        cache,
		metrics:      metrics,
		cfg:          cfg,
		shuffle:      shuffle,
		validator:    validate,
		logger:       logger,
	}
}

// AllocateTalent matches one talent against the company slot catalog
// for the week containing weekStart and reserves up to quota slots.
// A zero weekStart means the current week; quota <= 0 uses the
// configured default.
func (s *AllocationService) AllocateTalent(ctx context.Context, talentID string, weekStart time.Time, quota int) (*dto.AllocationResult, error) {
	talent, err := s.loadActiveTalent(ctx, talentID)
	if err != nil {
		return nil, err
	}

	week, err := s.resolveWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	result, err := s.allocate(ctx, talent, week, quota)
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}

	s.invalidateCalendar(ctx, week.ID)
	return result, nil
}

// AllocateAll runs the matcher for every active talent in storage
// order. Individual rejections are reported per talent and never fail
// the batch.
func (s *AllocationService) AllocateAll(ctx context.Context, weekStart time.Time, quota int) (*dto.BatchAllocationResult, error) {
	week, err := s.resolveWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	talents, err := s.talents.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active talents")
	}

	batch := &dto.BatchAllocationResult{WeekID: week.ID, Items: make([]dto.BatchAllocationItem, 0, len(talents))}
	for i := range talents {
		talent := &talents[i]
		item := dto.BatchAllocationItem{TalentID: talent.ID, TalentName: talent.FullName}

		result, err := s.allocate(ctx, talent, week, quota)
		if err != nil {
			s.recordRejection(err)
			item.Rejection = appErrors.FromError(err).Code
		} else {
			item.Created = result.Created
			item.CompanyNames = result.CompanyNames
			batch.TotalCreated += result.Created
		}
		batch.Items = append(batch.Items, item)
	}

	if batch.TotalCreated > 0 {
		s.invalidateCalendar(ctx, week.ID)
	}
	s.logger.Info("batch allocation finished",
		zap.String("week_id", week.ID),
		zap.Int("talents", len(talents)),
		zap.Int("created", batch.TotalCreated))
	return batch, nil
}

// AssignManual books a talent into a specific company slot, bypassing
// the matcher but not the capacity or duplicate checks.
func (s *AllocationService) AssignManual(ctx context.Context, req dto.ManualAssignRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	day, ok := models.ParseDayOfWeek(req.DayOfWeek)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid day of week")
	}
	shift, ok := models.ParseShift(req.Shift)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid shift")
	}

	talent, err := s.loadActiveTalent(ctx, req.TalentID)
	if err != nil {
		return nil, err
	}

	company, err := s.companies.FindByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "company not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load company")
	}
	if !company.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "company is inactive")
	}

	var weekStart time.Time
	if req.WeekStart != "" {
		weekStart, err = time.Parse("2006-01-02", req.WeekStart)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid week start date")
		}
	}
	week, err := s.resolveWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	if s.cfg.SingleBookingPerWeek {
		count, err := s.bookings.CountForTalentWeek(ctx, talent.ID, week.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count bookings")
		}
		if count > 0 {
			return nil, appErrors.ErrAlreadyAssigned
		}
	}

	window := shift.Window()
	startTime, endTime := window.Start, window.End
	capacity := 1
	slot, err := s.availability.FindCompanySlot(ctx, company.ID, day, shift)
	switch {
	case err == nil:
		startTime, endTime = slot.StartTime, slot.EndTime
		capacity = slot.EffectiveCapacity()
	case errors.Is(err, sql.ErrNoRows):
		// No declared slot, fall back to the canonical shift window.
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load company slot")
	}
	if req.StartTime != "" {
		startTime = req.StartTime
	}
	if req.EndTime != "" {
		endTime = req.EndTime
	}

	booking := &models.Booking{
		TalentID:    talent.ID,
		CompanyID:   company.ID,
		WeekID:      week.ID,
		DayOfWeek:   day,
		Shift:       shift,
		BookingDate: day.DateInWeek(week.StartDate),
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      models.BookingStatusActive,
	}

	reserved, err := s.bookings.TryReserveSlot(ctx, booking, capacity)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrSlotTaken.Code {
			return nil, appErrors.ErrSlotTaken
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve slot")
	}
	if !reserved {
		return nil, appErrors.ErrNoCapacity
	}

	if s.metrics != nil {
		s.metrics.RecordBookingsCreated(1)
	}
	s.invalidateCalendar(ctx, week.ID)
	s.logger.Info("manual assignment created",
		zap.String("booking_id", booking.ID),
		zap.String("talent_id", talent.ID),
		zap.String("company_id", company.ID))
	return booking, nil
}

// allocate runs the matching pipeline for one already-loaded talent.
func (s *AllocationService) allocate(ctx context.Context, talent *models.Talent, week *models.Week, quota int) (*dto.AllocationResult, error) {
	if s.cfg.SingleBookingPerWeek {
		count, err := s.bookings.CountForTalentWeek(ctx, talent.ID, week.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count bookings")
		}
		if count > 0 {
			return nil, appErrors.ErrAlreadyAssigned
		}
	}

	talentSlots, err := s.availability.ListByTalent(ctx, talent.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load talent availability")
	}
	if len(talentSlots) == 0 {
		return nil, appErrors.ErrNoAvailability
	}

	catalog, err := s.availability.ListCompanySlotCatalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load company slots")
	}

	candidates := matchCandidates(talentSlots, catalog)
	if len(candidates) == 0 {
		return nil, appErrors.ErrNoMatches
	}

	s.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if quota <= 0 {
		quota = talent.MaxWeeklyBookings
	}
	if quota <= 0 {
		quota = s.cfg.DefaultQuota
	}
	if quota <= 0 {
		quota = 1
	}
	if quota > len(candidates) {
		quota = len(candidates)
	}
	selected := candidates[:quota]

	// Capacity is only consulted at reservation time, after the quota
	// cut. A full company in the selection consumes its quota place
	// even when an open one was left behind in the candidate pool.
	result := &dto.AllocationResult{TalentID: talent.ID, WeekID: week.ID}
	for _, candidate := range selected {
		booking := &models.Booking{
			TalentID:    talent.ID,
			CompanyID:   candidate.CompanyID,
			WeekID:      week.ID,
			DayOfWeek:   candidate.DayOfWeek,
			Shift:       candidate.Shift,
			BookingDate: candidate.DayOfWeek.DateInWeek(week.StartDate),
			StartTime:   candidate.StartTime,
			EndTime:     candidate.EndTime,
			Status:      models.BookingStatusActive,
		}
		reserved, err := s.bookings.TryReserveSlot(ctx, booking, candidate.EffectiveCapacity())
		if err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrSlotTaken.Code {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve slot")
		}
		if !reserved {
			continue
		}
		result.Created++
		result.CompanyIDs = append(result.CompanyIDs, candidate.CompanyID)
		result.CompanyNames = append(result.CompanyNames, candidate.CompanyName)
		result.Bookings = append(result.Bookings, *booking)
	}

	if result.Created == 0 {
		return nil, appErrors.ErrNoCapacity
	}

	if s.metrics != nil {
		s.metrics.RecordBookingsCreated(result.Created)
	}
	s.logger.Info("talent allocated",
		zap.String("talent_id", talent.ID),
		zap.String("week_id", week.ID),
		zap.Int("created", result.Created),
		zap.Strings("companies", result.CompanyNames))
	return result, nil
}

// matchCandidates intersects the talent's slots with the company slot
// catalog. Catalog order is preserved and each company contributes at
// most its first matching slot.
func matchCandidates(talentSlots []models.TalentAvailabilitySlot, catalog []models.CompanySlotDetail) []models.CompanySlotDetail {
	declared := make(map[models.DayOfWeek]map[models.Shift]bool, len(talentSlots))
	for _, slot := range talentSlots {
		if declared[slot.DayOfWeek] == nil {
			declared[slot.DayOfWeek] = make(map[models.Shift]bool)
		}
		declared[slot.DayOfWeek][slot.Shift] = true
	}

	seen := make(map[string]bool)
	var candidates []models.CompanySlotDetail
	for _, slot := range catalog {
		if seen[slot.CompanyID] {
			continue
		}
		if declared[slot.DayOfWeek][slot.Shift] {
			seen[slot.CompanyID] = true
			candidates = append(candidates, slot)
		}
	}
	return candidates
}

func (s *AllocationService) loadActiveTalent(ctx context.Context, talentID string) (*models.Talent, error) {
	talent, err := s.talents.FindByID(ctx, talentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "talent not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load talent")
	}
	if !talent.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "talent is inactive")
	}
	return talent, nil
}

func (s *AllocationService) resolveWeek(ctx context.Context, weekStart time.Time) (*models.Week, error) {
	if weekStart.IsZero() {
		weekStart = time.Now().UTC()
	}
	week, err := s.weeks.FindOrCreate(ctx, models.NewWeek(weekStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve week")
	}
	return week, nil
}

func (s *AllocationService) recordRejection(err error) {
	code := appErrors.FromError(err).Code
	switch code {
	case appErrors.ErrAlreadyAssigned.Code, appErrors.ErrNoAvailability.Code,
		appErrors.ErrNoMatches.Code, appErrors.ErrNoCapacity.Code,
		appErrors.ErrSlotTaken.Code:
		if s.metrics != nil {
			s.metrics.RecordAllocationRejection(code)
		}
	}
}

func (s *AllocationService) invalidateCalendar(ctx context.Context, weekID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("calendar:%s:*", weekID)); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.String("week_id", weekID), zap.Error(err))
	}
}
