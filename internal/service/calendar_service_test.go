package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
)

type calendarAvailabilityStub struct {
	catalog     []models.CompanySlotDetail
	talentSlots []models.TalentSlotDetail
	byTalent    map[string][]models.TalentAvailabilitySlot
}

func (r *calendarAvailabilityStub) ListCompanySlotCatalog(ctx context.Context) ([]models.CompanySlotDetail, error) {
	return r.catalog, nil
}

func (r *calendarAvailabilityStub) ListTalentSlotCatalog(ctx context.Context) ([]models.TalentSlotDetail, error) {
	return r.talentSlots, nil
}

func (r *calendarAvailabilityStub) ListByTalent(ctx context.Context, talentID string) ([]models.TalentAvailabilitySlot, error) {
	return r.byTalent[talentID], nil
}

type calendarBookingStub struct {
	bookings []models.BookingDetail
}

func (r *calendarBookingStub) ListByWeek(ctx context.Context, weekID string) ([]models.BookingDetail, error) {
	return r.bookings, nil
}

func (r *calendarBookingStub) ListByTalentWeek(ctx context.Context, talentID, weekID string) ([]models.BookingDetail, error) {
	var out []models.BookingDetail
	for _, b := range r.bookings {
		if b.TalentID == talentID {
			out = append(out, b)
		}
	}
	return out, nil
}

type calendarTalentStub struct {
	talents map[string]*models.Talent
}

func (r *calendarTalentStub) FindByID(ctx context.Context, id string) (*models.Talent, error) {
	if t, ok := r.talents[id]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func declaredSlot(talentID, name string, day models.DayOfWeek, shift models.Shift) models.TalentSlotDetail {
	return models.TalentSlotDetail{
		TalentAvailabilitySlot: talentSlot(talentID, day, shift),
		TalentName:             name,
		TalentActive:           true,
	}
}

func TestWeekCalendarGroupsByCompany(t *testing.T) {
	availability := &calendarAvailabilityStub{
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 2),
			companySlot("c1", "Acme", models.DayTuesday, models.ShiftAfternoon, 1),
			companySlot("c2", "Globex", models.DayMonday, models.ShiftMorning, 1),
		},
		talentSlots: []models.TalentSlotDetail{
			declaredSlot("t1", "Ana", models.DayMonday, models.ShiftMorning),
			declaredSlot("t2", "Bruno", models.DayMonday, models.ShiftMorning),
		},
	}
	bookings := &calendarBookingStub{}
	svc := NewCalendarService(&weekRepoStub{week: testWeek()}, availability, bookings, &calendarTalentStub{}, nil, time.Minute, nil)

	calendar, err := svc.WeekCalendar(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, calendar.Companies, 2)
	assert.Equal(t, "Acme", calendar.Companies[0].CompanyName)
	assert.Len(t, calendar.Companies[0].Slots, 2)
	assert.Len(t, calendar.Companies[1].Slots, 1)

	monday := calendar.Companies[0].Slots[0]
	assert.Equal(t, 2, monday.Capacity)
	assert.Len(t, monday.Available, 2)
	assert.Empty(t, monday.Booked)
}

func TestWeekCalendarSeparatesCompaniesSharingName(t *testing.T) {
	// Catalog rows arrive ordered by name then company id, so each
	// company's rows are contiguous even when names collide.
	availability := &calendarAvailabilityStub{
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
			companySlot("c1", "Acme", models.DayTuesday, models.ShiftAfternoon, 1),
			companySlot("c2", "Acme", models.DayMonday, models.ShiftMorning, 1),
		},
	}
	svc := NewCalendarService(&weekRepoStub{week: testWeek()}, availability, &calendarBookingStub{}, &calendarTalentStub{}, nil, time.Minute, nil)

	calendar, err := svc.WeekCalendar(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, calendar.Companies, 2)
	assert.Equal(t, "c1", calendar.Companies[0].CompanyID)
	assert.Len(t, calendar.Companies[0].Slots, 2)
	assert.Equal(t, "c2", calendar.Companies[1].CompanyID)
	assert.Len(t, calendar.Companies[1].Slots, 1)
}

func TestWeekCalendarExcludesCommittedTalents(t *testing.T) {
	availability := &calendarAvailabilityStub{
		catalog: []models.CompanySlotDetail{
			companySlot("c1", "Acme", models.DayMonday, models.ShiftMorning, 1),
			companySlot("c2", "Globex", models.DayMonday, models.ShiftMorning, 1),
		},
		talentSlots: []models.TalentSlotDetail{
			declaredSlot("t1", "Ana", models.DayMonday, models.ShiftMorning),
			declaredSlot("t2", "Bruno", models.DayMonday, models.ShiftMorning),
		},
	}
	bookings := &calendarBookingStub{bookings: []models.BookingDetail{{
		Booking: models.Booking{
			ID:        "b1",
			TalentID:  "t1",
			CompanyID: "c1",
			WeekID:    "week-1",
			DayOfWeek: models.DayMonday,
			Shift:     models.ShiftMorning,
			StartTime: "09:00",
			EndTime:   "13:00",
			Status:    models.BookingStatusActive,
		},
		TalentName:  "Ana",
		CompanyName: "Acme",
	}}}
	svc := NewCalendarService(&weekRepoStub{week: testWeek()}, availability, bookings, &calendarTalentStub{}, nil, time.Minute, nil)

	calendar, err := svc.WeekCalendar(context.Background(), time.Time{})
	require.NoError(t, err)

	acme := calendar.Companies[0].Slots[0]
	require.Len(t, acme.Booked, 1)
	assert.Equal(t, "Ana", acme.Booked[0].FullName)
	require.Len(t, acme.Available, 1)
	assert.Equal(t, "t2", acme.Available[0].ID)

	// A talent committed at Acme is not available to Globex in the
	// same window either.
	globex := calendar.Companies[1].Slots[0]
	assert.Empty(t, globex.Booked)
	require.Len(t, globex.Available, 1)
	assert.Equal(t, "t2", globex.Available[0].ID)
}

func TestWeekCalendarByIDNotFound(t *testing.T) {
	svc := NewCalendarService(&weekRepoStub{week: testWeek()}, &calendarAvailabilityStub{}, &calendarBookingStub{}, &calendarTalentStub{}, nil, time.Minute, nil)

	_, err := svc.WeekCalendarByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTalentCalendarResolvesBookings(t *testing.T) {
	week := testWeek()
	availability := &calendarAvailabilityStub{
		byTalent: map[string][]models.TalentAvailabilitySlot{
			"t1": {talentSlot("t1", models.DayMonday, models.ShiftMorning)},
		},
	}
	bookings := &calendarBookingStub{bookings: []models.BookingDetail{{
		Booking: models.Booking{
			ID:          "b1",
			TalentID:    "t1",
			CompanyID:   "c1",
			WeekID:      week.ID,
			DayOfWeek:   models.DayMonday,
			Shift:       models.ShiftMorning,
			BookingDate: week.StartDate,
			StartTime:   "09:00",
			EndTime:     "13:00",
			Status:      models.BookingStatusActive,
		},
		TalentName:  "Ana",
		CompanyName: "Acme",
	}}}
	talents := &calendarTalentStub{talents: map[string]*models.Talent{"t1": {ID: "t1", FullName: "Ana", Active: true}}}
	svc := NewCalendarService(&weekRepoStub{week: week}, availability, bookings, talents, nil, time.Minute, nil)

	view, err := svc.TalentCalendar(context.Background(), "t1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Ana", view.Talent.FullName)
	assert.Len(t, view.Availability, 1)
	require.Len(t, view.Bookings, 1)
	assert.Equal(t, "Acme", view.Bookings[0].CompanyName)
	assert.Equal(t, "2026-08-24", view.Bookings[0].Date)
}

func TestTalentCalendarUnknownTalent(t *testing.T) {
	svc := NewCalendarService(&weekRepoStub{week: testWeek()}, &calendarAvailabilityStub{}, &calendarBookingStub{}, &calendarTalentStub{}, nil, time.Minute, nil)

	_, err := svc.TalentCalendar(context.Background(), "missing", time.Time{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
