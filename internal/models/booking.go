package models

import "time"

// BookingStatus is the lifecycle state of a booking. Legacy data carried
// free-text statuses; new writes use ACTIVE, PENDING survives only when
// reading older rows.
type BookingStatus string

const (
	BookingStatusActive  BookingStatus = "ACTIVE"
	BookingStatusPending BookingStatus = "PENDING"
)

// Booking pairs a talent with a company for one (day, shift) slot in a week.
type Booking struct {
	ID          string        `db:"id" json:"id"`
	TalentID    string        `db:"talent_id" json:"talent_id"`
	CompanyID   string        `db:"company_id" json:"company_id"`
	WeekID      string        `db:"week_id" json:"week_id"`
	DayOfWeek   DayOfWeek     `db:"day_of_week" json:"day_of_week"`
	Shift       Shift         `db:"shift" json:"shift"`
	BookingDate time.Time     `db:"booking_date" json:"booking_date"`
	StartTime   string        `db:"start_time" json:"start_time"`
	EndTime     string        `db:"end_time" json:"end_time"`
	Status      BookingStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingFilter describes query params for listing bookings.
type BookingFilter struct {
	WeekID    string
	CompanyID string
	TalentID  string
	DayOfWeek string
	Shift     string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// BookingDetail joins a booking with display names for list views.
type BookingDetail struct {
	Booking
	TalentName  string `db:"talent_name" json:"talent_name"`
	CompanyName string `db:"company_name" json:"company_name"`
}
