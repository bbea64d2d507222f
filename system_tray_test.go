package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/borgmon/agenda/pkg/reminder"
)

func TestUpcomingToday(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	at := func(day, hour int) time.Time {
		return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
	}
	events := []models.CalendarEvent{
		{ID: "ended", Start: at(11, 9), End: at(11, 10)},
		{ID: "running", Start: at(11, 11), End: at(11, 13)},
		{ID: "later", Start: at(11, 15), End: at(11, 16)},
		{ID: "evening", Start: at(11, 20), End: at(11, 21)},
		{ID: "tomorrow", Start: at(12, 9), End: at(12, 10)},
	}

	ids := func(events []models.CalendarEvent) []string {
		result := []string{}
		for _, e := range events {
			result = append(result, e.ID)
		}
		return result
	}

	assert.Equal(t, []string{"running", "later", "evening"}, ids(upcomingToday(events, now, 5)))
	assert.Equal(t, []string{"running", "later"}, ids(upcomingToday(events, now, 2)))
	assert.Empty(t, upcomingToday(nil, now, 5))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "Standup", truncateString("Standup", 10))
	assert.Equal(t, "Quarterly...", truncateString("Quarterly planning review", 12))
	assert.Equal(t, "Réunion...", truncateString("Réunion d'équipe", 10))
}

func TestNextReminderLabel(t *testing.T) {
	fireAt := time.Date(2026, 3, 11, 14, 45, 0, 0, time.Local)
	upcoming := []reminder.Reminder{
		{EventID: "a", Title: "Design review", FireAt: fireAt},
		{EventID: "b", Title: "Later", FireAt: fireAt.Add(time.Hour)},
	}

	assert.Equal(t, "Next Reminder: 14:45 - Design review", nextReminderLabel(upcoming))
	assert.Equal(t, "", nextReminderLabel(nil))
}
