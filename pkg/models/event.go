package models

import "time"

// User identifies the person who created an event
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CalendarEvent is a single scheduled event shown on the calendar
type CalendarEvent struct {
	ID       string    // Empty for a draft that has never been saved
	Title    string    // Display title, required on submit
	Notes    string    // Free text, may be empty
	Start    time.Time // Zero value means no valid timestamp
	End      time.Time
	BgColor  string // Hex colour, e.g. "#6610f2" (optional)
	User     User
	SourceID string // Subscription ID for read-only subscribed events, empty for local ones
}

// IsDraft reports whether the event has not been persisted yet
func (e CalendarEvent) IsDraft() bool {
	return e.ID == ""
}

// IsReadOnly reports whether the event came from a subscription
func (e CalendarEvent) IsReadOnly() bool {
	return e.SourceID != ""
}

// Duration returns End - Start
func (e CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Overlaps reports whether the event intersects the half-open range [from, to)
func (e CalendarEvent) Overlaps(from, to time.Time) bool {
	return e.Start.Before(to) && e.End.After(from)
}
