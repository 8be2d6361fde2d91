package models

import (
	"fmt"
	"time"
)

// Week is the Monday-anchored scheduling period scoping booking uniqueness
// and capacity checks. Created on demand by the allocator (find-or-create).
type Week struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewWeek builds a week record for the Monday containing t.
func NewWeek(t time.Time) *Week {
	start := WeekStartFor(t)
	end := start.AddDate(0, 0, 6)
	return &Week{
		Name:      fmt.Sprintf("Week of %s", start.Format("2006-01-02")),
		StartDate: start,
		EndDate:   end,
	}
}
