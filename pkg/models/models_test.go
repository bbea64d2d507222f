package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseViewMode(t *testing.T) {
	for _, view := range AllViews {
		assert.Equal(t, view, ParseViewMode(string(view)))
	}
	assert.Equal(t, ViewDay, ParseViewMode(""))
	assert.Equal(t, ViewDay, ParseViewMode("Week"))
	assert.Equal(t, ViewDay, ParseViewMode("fortnight"))
}

func TestGetReminderMinutes(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"", []int{}},
		{"10", []int{10}},
		{"15, 5,15,0", []int{15, 5, 0}},
		{"abc,-5,30", []int{30}},
	}

	for _, tt := range tests {
		c := &Config{ReminderMinutes: tt.input}
		assert.Equal(t, tt.want, c.GetReminderMinutes(), "input %q", tt.input)
	}
}

func TestSubscriptionWindow(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	from, to := (&Config{}).SubscriptionWindow(now)
	assert.Equal(t, now.Add(-24*time.Hour), from)
	assert.Equal(t, now.AddDate(0, 0, 31), to)

	_, to = (&Config{SubscriptionDays: 7}).SubscriptionWindow(now)
	assert.Equal(t, now.AddDate(0, 0, 7), to)
}

func TestICalSource_Validate(t *testing.T) {
	assert.True(t, (&ICalSource{Name: "Work", URL: "https://example.com/w.ics"}).Validate())
	assert.False(t, (&ICalSource{Name: "Work"}).Validate())
	assert.False(t, (&ICalSource{URL: "https://example.com/w.ics"}).Validate())
}

func TestCalendarEvent(t *testing.T) {
	start := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	e := CalendarEvent{Start: start, End: start.Add(90 * time.Minute)}

	assert.True(t, e.IsDraft())
	assert.False(t, e.IsReadOnly())
	assert.Equal(t, 90*time.Minute, e.Duration())

	assert.True(t, e.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, e.Overlaps(start.Add(90*time.Minute), start.Add(2*time.Hour)))
	assert.False(t, e.Overlaps(start.Add(-time.Hour), start))

	e.ID, e.SourceID = "x", "holidays"
	assert.False(t, e.IsDraft())
	assert.True(t, e.IsReadOnly())
}
