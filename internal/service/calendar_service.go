package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/dto"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type calendarWeekRepo interface {
	FindOrCreate(ctx context.Context, week *models.Week) (*models.Week, error)
	FindByID(ctx context.Context, id string) (*models.Week, error)
}

type calendarAvailabilityRepo interface {
	ListCompanySlotCatalog(ctx context.Context) ([]models.CompanySlotDetail, error)
	ListTalentSlotCatalog(ctx context.Context) ([]models.TalentSlotDetail, error)
	ListByTalent(ctx context.Context, talentID string) ([]models.TalentAvailabilitySlot, error)
}

type calendarBookingRepo interface {
	ListByWeek(ctx context.Context, weekID string) ([]models.BookingDetail, error)
	ListByTalentWeek(ctx context.Context, talentID, weekID string) ([]models.BookingDetail, error)
}

type calendarTalentRepo interface {
	FindByID(ctx context.Context, id string) (*models.Talent, error)
}

// CalendarService projects the booking state of one week into the ops
// and talent scheduling views. The projection is recomputed from
// storage on every miss; it carries no state of its own.
type CalendarService struct {
	weeks        calendarWeekRepo
	availability calendarAvailabilityRepo
	bookings     calendarBookingRepo
	talents      calendarTalentRepo
	cache        *CacheService
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewCalendarService instantiates CalendarService.
func NewCalendarService(
	weeks calendarWeekRepo,
	availability calendarAvailabilityRepo,
	bookings calendarBookingRepo,
	talents calendarTalentRepo,
	cache *CacheService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		weeks:        weeks,
		availability: availability,
		bookings:     bookings,
		talents:      talents,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// WeekCalendar builds the ops view for the week containing weekStart.
// A zero weekStart means the current week.
func (s *CalendarService) WeekCalendar(ctx context.Context, weekStart time.Time) (*dto.WeekCalendar, error) {
	if weekStart.IsZero() {
		weekStart = time.Now().UTC()
	}
	week, err := s.weeks.FindOrCreate(ctx, models.NewWeek(weekStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve week")
	}
	return s.project(ctx, week)
}

// WeekCalendarByID builds the ops view for a known week.
func (s *CalendarService) WeekCalendarByID(ctx context.Context, weekID string) (*dto.WeekCalendar, error) {
	week, err := s.weeks.FindByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "week not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week")
	}
	return s.project(ctx, week)
}

func (s *CalendarService) project(ctx context.Context, week *models.Week) (*dto.WeekCalendar, error) {
	cacheKey := fmt.Sprintf("calendar:%s:week", week.ID)
	if s.cache != nil {
		var cached dto.WeekCalendar
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	catalog, err := s.availability.ListCompanySlotCatalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load company slots")
	}
	talentSlots, err := s.availability.ListTalentSlotCatalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load talent availability")
	}
	bookings, err := s.bookings.ListByWeek(ctx, week.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	// Talents already committed anywhere at a (day, shift) this week
	// drop out of every slot's available list for that window.
	type window struct {
		day   models.DayOfWeek
		shift models.Shift
	}
	committed := make(map[window]map[string]bool)
	bookedBySlot := make(map[string][]dto.BookedTalent)
	for _, b := range bookings {
		w := window{day: b.DayOfWeek, shift: b.Shift}
		if committed[w] == nil {
			committed[w] = make(map[string]bool)
		}
		committed[w][b.TalentID] = true
		slotKey := fmt.Sprintf("%s|%s|%s", b.CompanyID, b.DayOfWeek, b.Shift)
		bookedBySlot[slotKey] = append(bookedBySlot[slotKey], dto.BookedTalent{
			BookingID: b.ID,
			TalentID:  b.TalentID,
			FullName:  b.TalentName,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Status:    b.Status,
		})
	}

	declaring := make(map[window][]dto.TalentRef)
	for _, slot := range talentSlots {
		w := window{day: slot.DayOfWeek, shift: slot.Shift}
		declaring[w] = append(declaring[w], dto.TalentRef{ID: slot.TalentID, FullName: slot.TalentName})
	}

	calendar := &dto.WeekCalendar{Week: *week}
	var current *dto.CompanyCalendar
	for _, slot := range catalog {
		if current == nil || current.CompanyID != slot.CompanyID {
			calendar.Companies = append(calendar.Companies, dto.CompanyCalendar{
				CompanyID:   slot.CompanyID,
				CompanyName: slot.CompanyName,
			})
			current = &calendar.Companies[len(calendar.Companies)-1]
		}

		w := window{day: slot.DayOfWeek, shift: slot.Shift}
		projection := dto.SlotProjection{
			DayOfWeek: slot.DayOfWeek,
			Shift:     slot.Shift,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Capacity:  slot.EffectiveCapacity(),
			Available: []dto.TalentRef{},
			Booked:    []dto.BookedTalent{},
		}
		for _, ref := range declaring[w] {
			if committed[w][ref.ID] {
				continue
			}
			projection.Available = append(projection.Available, ref)
		}
		slotKey := fmt.Sprintf("%s|%s|%s", slot.CompanyID, slot.DayOfWeek, slot.Shift)
		if booked, ok := bookedBySlot[slotKey]; ok {
			projection.Booked = booked
		}
		current.Slots = append(current.Slots, projection)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, calendar, s.cacheTTL); err != nil {
			s.logger.Warn("calendar cache store failed", zap.String("week_id", week.ID), zap.Error(err))
		}
	}
	return calendar, nil
}

// TalentCalendar builds the talent-facing view for the week containing
// weekStart: declared availability plus resolved bookings.
func (s *CalendarService) TalentCalendar(ctx context.Context, talentID string, weekStart time.Time) (*dto.TalentCalendar, error) {
	talent, err := s.talents.FindByID(ctx, talentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "talent not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load talent")
	}

	if weekStart.IsZero() {
		weekStart = time.Now().UTC()
	}
	week, err := s.weeks.FindOrCreate(ctx, models.NewWeek(weekStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve week")
	}

	availability, err := s.availability.ListByTalent(ctx, talent.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	bookings, err := s.bookings.ListByTalentWeek(ctx, talent.ID, week.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	view := &dto.TalentCalendar{
		Week:         *week,
		Talent:       dto.TalentRef{ID: talent.ID, FullName: talent.FullName},
		Availability: availability,
		Bookings:     make([]dto.TalentBookingView, 0, len(bookings)),
	}
	for _, b := range bookings {
		view.Bookings = append(view.Bookings, dto.TalentBookingView{
			BookingID:   b.ID,
			CompanyID:   b.CompanyID,
			CompanyName: b.CompanyName,
			DayOfWeek:   b.DayOfWeek,
			Shift:       b.Shift,
			Date:        b.BookingDate.Format("2006-01-02"),
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
		})
	}
	return view, nil
}
