package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayOfWeek(t *testing.T) {
	day, ok := ParseDayOfWeek("monday")
	require.True(t, ok)
	assert.Equal(t, DayMonday, day)

	day, ok = ParseDayOfWeek(" FRIDAY ")
	require.True(t, ok)
	assert.Equal(t, DayFriday, day)

	_, ok = ParseDayOfWeek("someday")
	assert.False(t, ok)
}

func TestParseShiftAcceptsSpanishAliases(t *testing.T) {
	for raw, want := range map[string]Shift{
		"MORNING": ShiftMorning,
		"mañana":  ShiftMorning,
		"manana":  ShiftMorning,
		"tarde":   ShiftAfternoon,
		"noche":   ShiftEvening,
	} {
		shift, ok := ParseShift(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, shift, raw)
	}

	_, ok := ParseShift("midnight")
	assert.False(t, ok)
}

func TestShiftWindow(t *testing.T) {
	window := ShiftMorning.Window()
	assert.Equal(t, "09:00", window.Start)
	assert.Equal(t, "13:00", window.End)

	window = ShiftEvening.Window()
	assert.Equal(t, "18:00", window.Start)
	assert.Equal(t, "22:00", window.End)
}

func TestWeekStartForAnchorsOnMonday(t *testing.T) {
	// Saturday August 29, 2026.
	saturday := time.Date(2026, time.August, 29, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC), WeekStartFor(saturday))

	// A Monday maps to itself.
	monday := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC), WeekStartFor(monday))

	// Sunday still belongs to the week that started the previous Monday.
	sunday := time.Date(2026, time.August, 30, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC), WeekStartFor(sunday))
}

func TestDateInWeek(t *testing.T) {
	weekStart := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, weekStart, DayMonday.DateInWeek(weekStart))
	assert.Equal(t, weekStart.AddDate(0, 0, 4), DayFriday.DateInWeek(weekStart))
	assert.Equal(t, weekStart.AddDate(0, 0, 6), DaySunday.DateInWeek(weekStart))
}
