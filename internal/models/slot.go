package models

import (
	"strings"
	"time"
)

// DayOfWeek is the canonical weekday enum used across availability and
// bookings. Parsing is case-insensitive.
type DayOfWeek string

const (
	DayMonday    DayOfWeek = "MONDAY"
	DayTuesday   DayOfWeek = "TUESDAY"
	DayWednesday DayOfWeek = "WEDNESDAY"
	DayThursday  DayOfWeek = "THURSDAY"
	DayFriday    DayOfWeek = "FRIDAY"
	DaySaturday  DayOfWeek = "SATURDAY"
	DaySunday    DayOfWeek = "SUNDAY"
)

// Shift is the coarse time-of-day bucket. Legacy Spanish spellings are
// accepted as input aliases and normalised to this enum.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftEvening   Shift = "EVENING"
)

// ShiftWindow is the fixed wall-clock range a shift resolves to.
type ShiftWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

var dayOffsets = map[DayOfWeek]int{
	DayMonday:    0,
	DayTuesday:   1,
	DayWednesday: 2,
	DayThursday:  3,
	DayFriday:    4,
	DaySaturday:  5,
	DaySunday:    6,
}

var shiftAliases = map[string]Shift{
	"MORNING":   ShiftMorning,
	"AFTERNOON": ShiftAfternoon,
	"EVENING":   ShiftEvening,
	// Spanish vocabulary used by legacy clients.
	"MAÑANA": ShiftMorning,
	"MANANA": ShiftMorning,
	"TARDE":  ShiftAfternoon,
	"NOCHE":  ShiftEvening,
}

// ShiftWindows maps each shift onto its canonical time range.
var ShiftWindows = map[Shift]ShiftWindow{
	ShiftMorning:   {Start: "09:00", End: "13:00"},
	ShiftAfternoon: {Start: "14:00", End: "18:00"},
	ShiftEvening:   {Start: "18:00", End: "22:00"},
}

// ParseDayOfWeek normalises a day name. The second result reports validity.
func ParseDayOfWeek(raw string) (DayOfWeek, bool) {
	day := DayOfWeek(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := dayOffsets[day]
	return day, ok
}

// ParseShift normalises a shift name, accepting Spanish aliases.
func ParseShift(raw string) (Shift, bool) {
	shift, ok := shiftAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return shift, ok
}

// Offset returns the Monday-based day offset (Monday=0 .. Sunday=6).
func (d DayOfWeek) Offset() int {
	return dayOffsets[d]
}

// Valid reports whether the day is one of the canonical enum values.
func (d DayOfWeek) Valid() bool {
	_, ok := dayOffsets[d]
	return ok
}

// Valid reports whether the shift is one of the canonical enum values.
func (s Shift) Valid() bool {
	_, ok := ShiftWindows[s]
	return ok
}

// Window returns the time range for the shift.
func (s Shift) Window() ShiftWindow {
	return ShiftWindows[s]
}

// DateInWeek resolves the concrete calendar date for the day within a
// Monday-anchored week.
func (d DayOfWeek) DateInWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, d.Offset())
}

// WeekStartFor truncates a timestamp to the Monday of its week.
func WeekStartFor(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// WeekEndFor returns the Sunday of the same week.
func WeekEndFor(t time.Time) time.Time {
	return WeekStartFor(t).AddDate(0, 0, 6)
}
