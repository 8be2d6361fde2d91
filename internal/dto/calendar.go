package dto

import "github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"

// TalentRef identifies a talent in projection payloads.
type TalentRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

// BookedTalent is a talent committed to a specific company slot.
type BookedTalent struct {
	BookingID string               `json:"booking_id"`
	TalentID  string               `json:"talent_id"`
	FullName  string               `json:"full_name"`
	StartTime string               `json:"start_time"`
	EndTime   string               `json:"end_time"`
	Status    models.BookingStatus `json:"status"`
}

// SlotProjection is one company slot in the ops calendar: who is already
// booked into it, and who could still be.
type SlotProjection struct {
	DayOfWeek models.DayOfWeek `json:"day_of_week"`
	Shift     models.Shift     `json:"shift"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Capacity  int              `json:"capacity"`
	Available []TalentRef      `json:"available"`
	Booked    []BookedTalent   `json:"booked"`
}

// CompanyCalendar groups slot projections per company.
type CompanyCalendar struct {
	CompanyID   string           `json:"company_id"`
	CompanyName string           `json:"company_name"`
	Slots       []SlotProjection `json:"slots"`
}

// WeekCalendar is the full ops scheduling view for one week.
type WeekCalendar struct {
	Week      models.Week       `json:"week"`
	Companies []CompanyCalendar `json:"companies"`
}

// TalentBookingView is one booking in the talent-facing week view.
type TalentBookingView struct {
	BookingID   string           `json:"booking_id"`
	CompanyID   string           `json:"company_id"`
	CompanyName string           `json:"company_name"`
	DayOfWeek   models.DayOfWeek `json:"day_of_week"`
	Shift       models.Shift     `json:"shift"`
	Date        string           `json:"date"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
}

// TalentCalendar is the talent-facing scheduling view for one week.
type TalentCalendar struct {
	Week         models.Week                     `json:"week"`
	Talent       TalentRef                       `json:"talent"`
	Availability []models.TalentAvailabilitySlot `json:"availability"`
	Bookings     []TalentBookingView             `json:"bookings"`
}
