package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/agenda/pkg/models"
	"github.com/borgmon/agenda/pkg/reminder"
)

func (a *Agenda) setupSystemTray() {
	if desk, ok := a.app.(desktop.App); ok {
		desk.SetSystemTrayIcon(theme.CalendarIcon())
	}
	a.updateSystemTrayMenu()
}

func (a *Agenda) updateSystemTrayMenu() {
	desk, ok := a.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{
		fyne.NewMenuItem("New Event", a.newEvent),
		fyne.NewMenuItem("Open Calendar", func() {
			a.window.Show()
			a.window.RequestFocus()
		}),
		fyne.NewMenuItemSeparator(),
	}

	now := time.Now()

	// Add upcoming events section
	upcoming := upcomingToday(a.events.Events(), now, 5)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming Today:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, event := range upcoming {
			id := event.ID
			item := fyne.NewMenuItem(fmt.Sprintf("  %s - %s",
				event.Start.Format("15:04"),
				truncateString(event.Title, 35)), func() {
				a.openEventByID(id)
			})
			menuItems = append(menuItems, item)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	if label := nextReminderLabel(a.reminders.Upcoming(now)); label != "" {
		nextItem := fyne.NewMenuItem(label, nil)
		nextItem.Disabled = true
		menuItems = append(menuItems, nextItem, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Settings", a.showSettingsWindow),
		fyne.NewMenuItem("Sync Now", func() {
			go a.syncSubscriptions()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", a.quit),
	)

	desk.SetSystemTrayMenu(fyne.NewMenu("Agenda", menuItems...))
}

// upcomingToday returns up to limit events that have not ended yet and start
// before the end of now's day
func upcomingToday(events []models.CalendarEvent, now time.Time, limit int) []models.CalendarEvent {
	y, m, d := now.Date()
	todayEnd := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	result := []models.CalendarEvent{}
	for _, event := range events {
		if !event.End.After(now) || !event.Start.Before(todayEnd) {
			continue
		}
		result = append(result, event)
		if len(result) >= limit {
			break
		}
	}
	return result
}

// nextReminderLabel describes the soonest pending reminder, "" when there is none
func nextReminderLabel(upcoming []reminder.Reminder) string {
	if len(upcoming) == 0 {
		return ""
	}
	next := upcoming[0]
	return fmt.Sprintf("Next Reminder: %s - %s", next.FireAt.Local().Format("15:04"), truncateString(next.Title, 30))
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
