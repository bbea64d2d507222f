package models

import (
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	AutoStart        bool         `json:"auto_start"`
	Owner            User         `json:"owner"`             // stamped on every event created locally
	ICalSources      []ICalSource `json:"ical_sources"`      // read-only subscriptions
	UpdateInterval   int          `json:"update_interval"`   // minutes
	ReminderMinutes  string       `json:"reminder_minutes"`  // comma-separated minutes before start
	SubscriptionDays int          `json:"subscription_days"` // how far ahead subscriptions are expanded
}

// ICalSource represents a named iCal calendar subscription
type ICalSource struct {
	ID   string `json:"id"`   // Unique identifier
	Name string `json:"name"` // Display name
	URL  string `json:"url"`  // iCal URL
}

// Validate checks if the iCal source has required fields
func (s *ICalSource) Validate() bool {
	return s.Name != "" && s.URL != ""
}

// GetReminderMinutes parses ReminderMinutes into a de-duplicated list in input order.
// Non-numeric and negative entries are ignored.
func (c *Config) GetReminderMinutes() []int {
	minutes := []int{}
	if c.ReminderMinutes == "" {
		return minutes
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(c.ReminderMinutes, ",") {
		part = strings.TrimSpace(part)
		min, err := strconv.Atoi(part)
		if err != nil || min < 0 || seen[min] {
			continue
		}
		minutes = append(minutes, min)
		seen[min] = true
	}

	return minutes
}

// SubscriptionWindow returns the range subscriptions are expanded over
func (c *Config) SubscriptionWindow(now time.Time) (time.Time, time.Time) {
	days := c.SubscriptionDays
	if days <= 0 {
		days = 31
	}
	return now.Add(-24 * time.Hour), now.AddDate(0, 0, days)
}
