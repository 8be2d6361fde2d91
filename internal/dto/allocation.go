package dto

import "github.com/fydhel24/proyectoadmusoficial-sub000/internal/models"

// AllocationResult summarises bookings created by one allocation run.
type AllocationResult struct {
	TalentID     string           `json:"talent_id"`
	WeekID       string           `json:"week_id"`
	Created      int              `json:"created"`
	CompanyNames []string         `json:"company_names"`
	CompanyIDs   []string         `json:"company_ids"`
	Bookings     []models.Booking `json:"bookings"`
}

// BatchAllocationItem is the per-talent outcome of a batch sweep. Rejection
// holds the reason code when no bookings were created for the talent.
type BatchAllocationItem struct {
	TalentID     string   `json:"talent_id"`
	TalentName   string   `json:"talent_name"`
	Created      int      `json:"created"`
	CompanyNames []string `json:"company_names,omitempty"`
	Rejection    string   `json:"rejection,omitempty"`
}

// BatchAllocationResult aggregates a full sweep over all active talents.
type BatchAllocationResult struct {
	WeekID       string                `json:"week_id"`
	TotalCreated int                   `json:"total_created"`
	Items        []BatchAllocationItem `json:"items"`
}

// ManualAssignRequest is an operator-specified single-slot assignment.
// DayOfWeek accepts case-insensitive English names; Shift additionally
// accepts the legacy Spanish vocabulary ("mañana", "tarde").
type ManualAssignRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
	TalentID  string `json:"talent_id" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required"`
	Shift     string `json:"shift" validate:"required"`
	WeekStart string `json:"week_start,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}
