package models

import "time"

// TalentAvailabilitySlot is a (day, shift) window a talent has declared
// itself free for. Rows are replaced wholesale and swept weekly.
type TalentAvailabilitySlot struct {
	ID        string    `db:"id" json:"id"`
	TalentID  string    `db:"talent_id" json:"talent_id"`
	DayOfWeek DayOfWeek `db:"day_of_week" json:"day_of_week"`
	Shift     Shift     `db:"shift" json:"shift"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CompanyAvailabilitySlot is a (day, shift) window a company accepts
// bookings for, bounded by Capacity per week.
type CompanyAvailabilitySlot struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	DayOfWeek DayOfWeek `db:"day_of_week" json:"day_of_week"`
	Shift     Shift     `db:"shift" json:"shift"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CompanySlotDetail joins a company availability slot with its parent
// company, the shape the allocator and projector consume.
type CompanySlotDetail struct {
	CompanyAvailabilitySlot
	CompanyName   string `db:"company_name" json:"company_name"`
	CompanyActive bool   `db:"company_active" json:"company_active"`
}

// TalentSlotDetail joins a talent availability slot with its owner,
// the shape the calendar projector consumes.
type TalentSlotDetail struct {
	TalentAvailabilitySlot
	TalentName   string `db:"talent_name" json:"talent_name"`
	TalentActive bool   `db:"talent_active" json:"talent_active"`
}

// EffectiveCapacity treats a missing or zero capacity as 1.
func (s CompanyAvailabilitySlot) EffectiveCapacity() int {
	if s.Capacity <= 0 {
		return 1
	}
	return s.Capacity
}

// AvailabilityReset is the persisted last-run record for the weekly
// availability sweep.
type AvailabilityReset struct {
	ID            string    `db:"id" json:"id"`
	WeekStart     time.Time `db:"week_start" json:"week_start"`
	ArchivedCount int       `db:"archived_count" json:"archived_count"`
	RanAt         time.Time `db:"ran_at" json:"ran_at"`
}
