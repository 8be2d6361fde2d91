package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/dto"
	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/config"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type talentRepoStub struct {
	talents []models.Talent
}

func (r *talentRepoStub) FindByID(ctx context.Context, id string) (*models.Talent, error) {
	for i := range r.talents {
		if r.talents[i].ID == id {
			return &r.talents[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *talentRepoStub) ListActive(ctx context.Context) ([]models.Talent, error) {
	var active []models.Talent
	for _, t := range r.talents {
		if t.Active {
			active = append(active, t)
		}
	}
	return active, nil
}

type companyRepoStub struct {
	companies []models.Company
}

func (r *companyRepoStub) FindByID(ctx context.Context, id string) (*models.Company, error) {
	for i := range r.companies {
		if r.companies[i].ID == id {
			return &r.companies[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type availabilityRepoStub struct {
	talentSlots map[string][]models.TalentAvailabilitySlot
	catalog     []models.CompanySlotDetail
}

func (r *availabilityRepoStub) ListByTalent(ctx context.Context, talentID string) ([]models.TalentAvailabilitySlot, error) {
	return r.talentSlots[talentID], nil
}

func (r *availabilityRepoStub) ListCompanySlotCatalog(ctx context.Context) ([]models.CompanySlotDetail, error) {
	return r.catalog, nil
}

func (r *availabilityRepoStub) FindCompanySlot(ctx context.Context, companyID string, day models.DayOfWeek, shift models.Shift) (*models.CompanyAvailabilitySlot, error) {
	for _, slot := range r.catalog {
		if slot.CompanyID == companyID && slot.DayOfWeek == day && slot.Shift == shift {
			return &slot.CompanyAvailabilitySlot, nil
		}
	}
	return nil, sql.ErrNoRows
}

type weekRepoStub struct {
	week *models.Week
}

func (r *weekRepoStub) FindOrCreate(ctx context.Context, week *models.Week) (*models.Week, error) {
	return r.week, nil
}

func (r *weekRepoStub) FindByID(ctx context.Context, id string) (*models.Week, error) {
	if r.week != nil && r.week.ID == id {
		return r.week, nil
	}
	return nil, sql.ErrNoRows
}

type bookingRepoStub struct {
	existing int
	reserved []models.Booking
	taken    map[string]bool
}

func slotKey(b *models.Booking) string {
	return fmt.Sprintf("%s|%s|%s", b.CompanyID, b.DayOfWeek, b.Shift)
}

func (r *bookingRepoStub) TryReserveSlot(ctx context.Context, booking *models.Booking, capacity int) (bool, error) {
	if r.taken[slotKey(booking)] {
		return false, appErrors.ErrSlotTaken
	}
	count := 0
	for _, b := range r.reserved {
		if b.CompanyID == booking.CompanyID && b.DayOfWeek == booking.DayOfWeek && b.Shift == booking.Shift {
			count++
		}
	}
	if count >= capacity {
		return false, nil
	}
	r.reserved = append(r.reserved, *booking)
	return true, nil
}

func (r *bookingRepoStub) CountForTalentWeek(ctx context.Context, talentID, weekID string) (int, error) {
	count := r.existing
	for _, b := range r.reserved {
		if b.TalentID == talentID && b.WeekID == weekID {
			count++
		}
	}
	return count, nil
}

func identityShuffle(n int, swap func(i, j int)) {}

func testWeek() *models.Week {
	start := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	return &models.Week{ID: "week-1", Name: "Week 2026-08-24", StartDate: start, EndDate: start.AddDate(0, 0, 6)}
}

func companySlot(companyID, name string, day models.DayOfWeek, shift models.Shift, capacity int) models.CompanySlotDetail {
	window := shift.Window()
	return models.CompanySlotDetail{
		CompanyAvailabilitySlot: models.CompanyAvailabilitySlot{
			ID:        companyID + "-" + string(day) + "-" + string(shift),
			CompanyID: companyID,
			DayOfWeek: day,
			Shift:     shift,
			StartTime: window.Start,
			EndTime:   window.End,
			Capacity:  capacity,
		},
		CompanyName:   name,
		CompanyActive: true,
	}
}

func talentSlot(talentID string, day models.DayOfWeek, shift models.Shift) models.TalentAvailabilitySlot {
	window := shift.Window()
	return models.TalentAvailabilitySlot{
		ID:        talentID + "-" + string(day) + "-" + string(shift),
		TalentID:  talentID,
		DayOfWeek: day,
		Shift:     shift,
		StartTime: window.Start,
		EndTime:   window.End,
	}
}

func newAllocationFixture(cfg config.AllocatorConfig, talents *talentRepoStub, companies *companyRepoStub, availability *availabilityRepoStub, bookings *bookingRepoStub) *AllocationService {
	return NewAllocationService(
		talents,
		companies,
		availability,
		&weekRepoStub{week: testWeek()},
		bookings,
		nil,
		nil,
		cfg,
		identityShuffle,
		nil,
		nil,
	)
}

func TestAllocateTalentCreatesBooking(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	bookings := &bookingRepoStub{}
	svc := newAllocationFixture(config.AllocatorConfig{SingleBookingPerWeek: true, DefaultQuota: 1}, talents, &companyRepoStub{}, availability, bookings)

	result, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, []string{"Acme"}, result.CompanyNames)
	require.Len(t, bookings.reserved, 1)
	booked := bookings.reserved[0]
	assert.Equal(t, "week-1", booked.WeekID)
	assert.Equal(t, models.DayMonday, booked.DayOfWeek)
	assert.Equal(t, models.BookingStatusActive, booked.Status)
	assert.Equal(t, testWeek().StartDate, booked.BookingDate)
}

func TestAllocateTalentAlreadyAssigned(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	bookings := &bookingRepoStub{existing: 1}
	svc := newAllocationFixture(config.AllocatorConfig{SingleBookingPerWeek: true}, talents, &companyRepoStub{}, availability, bookings)

	_, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyAssigned.Code, appErrors.FromError(err).Code)
}

func TestAllocateTalentNoAvailability(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	availability := &availabilityRepoStub{talentSlots: map[string][]models.TalentAvailabilitySlot{}}
	svc := newAllocationFixture(config.AllocatorConfig{SingleBookingPerWeek: true}, talents, &companyRepoStub{}, availability, &bookingRepoStub{})

	_, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoAvailability.Code, appErrors.FromError(err).Code)
}

func TestAllocateTalentNoMatches(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayTuesday, models.ShiftEvening)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	svc := newAllocationFixture(config.AllocatorConfig{SingleBookingPerWeek: true}, talents, &companyRepoStub{}, availability, &bookingRepoStub{})

	_, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoMatches.Code, appErrors.FromError(err).Code)
}

func TestAllocateTalentNoCapacity(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	bookings := &bookingRepoStub{
		reserved: []models.Booking{{TalentID: "other", CompanyID: "c1", WeekID: "week-1", DayOfWeek: models.DayMonday, Shift: models.ShiftMorning}},
	}
	svc := newAllocationFixture(config.AllocatorConfig{}, talents, &companyRepoStub{}, availability, bookings)

	_, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoCapacity.Code, appErrors.FromError(err).Code)
}

func TestAllocateTalentHonorsQuota(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true, MaxWeeklyBookings: 2}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
			companySlot("c2", "Globex", models.DayMonday, models.ShiftMorning, 1),
			companySlot("c3", "Initech", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	bookings := &bookingRepoStub{}
	svc := newAllocationFixture(config.AllocatorConfig{DefaultQuota: 1}, talents, &companyRepoStub{}, availability, bookings)

	result, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, []string{"Acme", "Globex"}, result.CompanyNames)
}

func TestAllocateTalentExplicitQuotaOverridesTalent(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true, MaxWeeklyBookings: 3}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
			companySlot("c2", "Globex", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	svc := newAllocationFixture(config.AllocatorConfig{}, talents, &companyRepoStub{}, availability, &bookingRepoStub{})

	result, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestAllocateTalentDedupesCompanies(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true, MaxWeeklyBookings: 2}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {
				talentSlot("t1", models.DayMonday, models.ShiftMorning),
				talentSlot("t1", models.DayTuesday, models.ShiftAfternoon),
			},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
			companySlot("c1", "Acme", models.DayTuesday, models.ShiftAfternoon, 1),
		},
	}
	bookings := &bookingRepoStub{}
	svc := newAllocationFixture(config.AllocatorConfig{}, talents, &companyRepoStub{}, availability, bookings)

	result, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, models.DayMonday, bookings.reserved[0].DayOfWeek)
}

func TestAllocateTalentSkipsTakenSlot(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true, MaxWeeklyBookings: 2}}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
			companySlot("c2", "Globex", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	bookings := &bookingRepoStub{taken: map[string]bool{"c1|MONDAY|MORNING": true}}
	svc := newAllocationFixture(config.AllocatorConfig{}, talents, &companyRepoStub{}, availability, bookings)

	result, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, []string{"Globex"}, result.CompanyNames)
}

func TestAllocateTalentInactive(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: false}}}
	svc := newAllocationFixture(config.AllocatorConfig{}, talents, &companyRepoStub{}, &availabilityRepoStub{}, &bookingRepoStub{})

	_, err := svc.AllocateTalent(context.Background(), "t1", time.Time{}, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAllocateAllReportsPerTalent(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{
		{ID: "t1", FullName: "Ana", Active: true},
		{ID: "t2", FullName: "Bruno", Active: true},
	}}
	availability := &availabilityRepoStub{
		talentSlots: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	bookings := &bookingRepoStub{}
	svc := newAllocationFixture(config.AllocatorConfig{SingleBookingPerWeek: true}, talents, &companyRepoStub{}, availability, bookings)

	batch, err := svc.AllocateAll(context.Background(), time.Time{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.TotalCreated)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, 1, batch.Items[0].Created)
	assert.Empty(t, batch.Items[0].Rejection)
	assert.Equal(t, appErrors.ErrNoAvailability.Code, batch.Items[1].Rejection)
}

func TestAssignManualReservesDeclaredSlot(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	companies := &companyRepoStub{companies: []models.Company{{ID: "c1", Name: "Acme", Active: true}}}
	availability := &availabilityRepoStub{
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayFriday, models.ShiftEvening, 3),
		},
	}
	bookings := &bookingRepoStub{}
	svc := newAllocationFixture(config.AllocatorConfig{SingleBookingPerWeek: true}, talents, companies, availability, bookings)

	booking, err := svc.AssignManual(context.Background(), dto.ManualAssignRequest{
		TalentID:  "t1",
		CompanyID: "c1",
		DayOfWeek: "FRIDAY",
		Shift:     "NOCHE",
		WeekStart: "2026-08-24",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DayFriday, booking.DayOfWeek)
	assert.Equal(t, models.ShiftEvening, booking.Shift)
	assert.Equal(t, "18:00", booking.StartTime)
	require.Len(t, bookings.reserved, 1)
}

func TestAssignManualFallsBackToShiftWindow(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	companies := &companyRepoStub{companies: []models.Company{{ID: "c1", Name: "Acme", Active: true}}}
	bookings := &bookingRepoStub{}
	svc := newAllocationFixture(config.AllocatorConfig{}, talents, companies, &availabilityRepoStub{}, bookings)

	booking, err := svc.AssignManual(context.Background(), dto.ManualAssignRequest{
		TalentID:  "t1",
		CompanyID: "c1",
		DayOfWeek: "monday",
		Shift:     "MORNING",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", booking.StartTime)
	assert.Equal(t, "13:00", booking.EndTime)
}

func TestAssignManualRejectsFullSlot(t *testing.T) {
	talents := &talentRepoStub{talents: []models.Talent{{ID: "t1", FullName: "Ana", Active: true}}}
	companies := &companyRepoStub{companies: []models.Company{{ID: "c1", Name: "Acme", Active: true}}}
	availability := &availabilityRepoStub{
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	bookings := &bookingRepoStub{
		reserved: []models.Booking{{TalentID: "other", CompanyID: "c1", WeekID: "week-1", DayOfWeek: models.DayMonday, Shift: models.ShiftMorning}},
	}
	svc := newAllocationFixture(config.AllocatorConfig{}, talents, companies, availability, bookings)

	_, err := svc.AssignManual(context.Background(), dto.ManualAssignRequest{
		TalentID:  "t1",
		CompanyID: "c1",
		DayOfWeek: "MONDAY",
		Shift:     "MORNING",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoCapacity.Code, appErrors.FromError(err).Code)
}

func TestAssignManualInvalidDay(t *testing.T) {
	svc := newAllocationFixture(config.AllocatorConfig{}, &talentRepoStub{}, &companyRepoStub{}, &availabilityRepoStub{}, &bookingRepoStub{})

	_, err := svc.AssignManual(context.Background(), dto.ManualAssignRequest{
		TalentID:  "t1",
		CompanyID: "c1",
		DayOfWeek: "SOMEDAY",
		Shift:     "MORNING",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSeededShuffleIsDeterministic(t *testing.T) {
	permute := func(shuffle ShuffleFunc) []int {
		values := []int{0, 1, 2, 3, 4, 5, 6, 7}
		shuffle(len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})
		return values
	}

	first := permute(NewSeededShuffle(42))
	second := permute(NewSeededShuffle(42))
	assert.Equal(t, first, second)
}

func TestMatchCandidatesPreservesCatalogOrder(t *testing.T) {
	talentSlots := []models.TalentAvailabilitySlot{
		talentSlot("t1", models.DayMonday, models.ShiftMorning),
		talentSlot("t1", models.DayWednesday, models.ShiftAfternoon),
	}
	catalog := []models.CompanySlotDetail{
		companySlot("c1", "Acme", models.DaySunday, models.ShiftEvening, 1),
		companySlot("c2", "Globex", models.DayWednesday, models.ShiftAfternoon, 1),
		companySlot("c3", "Initech", models.DayMonday, models.ShiftMorning, 1),
	}

	candidates := matchCandidates(talentSlots, catalog)
	require.Len(t, candidates, 2)
	assert.Equal(t, "c2", candidates[0].CompanyID)
	assert.Equal(t, "c3", candidates[1].CompanyID)
}
