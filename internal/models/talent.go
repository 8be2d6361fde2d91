package models

import "time"

// Talent is a person offering weekly availability to be booked by companies.
type Talent struct {
	ID                string    `db:"id" json:"id"`
	UserID            *string   `db:"user_id" json:"user_id,omitempty"`
	FullName          string    `db:"full_name" json:"full_name"`
	Email             string    `db:"email" json:"email"`
	Phone             *string   `db:"phone" json:"phone,omitempty"`
	Active            bool      `db:"active" json:"active"`
	MaxWeeklyBookings int       `db:"max_weekly_bookings" json:"max_weekly_bookings"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// TalentFilter captures filtering criteria for listing talents.
type TalentFilter struct {
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
