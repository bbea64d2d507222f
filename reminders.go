package main

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/borgmon/agenda/pkg/audio"
	"github.com/borgmon/agenda/pkg/platform"
	"github.com/borgmon/agenda/pkg/reminder"
)

// Checked several times a minute so no minute is skipped; each reminder
// fires once regardless
const reminderCheckInterval = 20 * time.Second

func (a *Agenda) startReminderChecker() {
	a.reminders.Sync(a.events.Events(), a.currentConfig().GetReminderMinutes(), time.Now())

	a.reminderTicker = time.NewTicker(reminderCheckInterval)
	a.reminderStop = make(chan struct{})
	go runEvery(a.reminderTicker, a.reminderStop, a.checkReminders)
}

func (a *Agenda) checkReminders() {
	due := a.reminders.Due(time.Now())
	if len(due) == 0 {
		return
	}

	for _, r := range due {
		log.Printf("[REMINDER] %s", r.Message())
		a.app.SendNotification(fyne.NewNotification("Agenda", r.Message()))
	}
	audio.PlayChime(audio.ReminderChime)

	if platform.IsAppActive() {
		a.showReminders(due)
	}
}

func (a *Agenda) showReminders(due []reminder.Reminder) {
	message := ""
	for i, r := range due {
		if i > 0 {
			message += "\n"
		}
		message += r.Message()
	}

	fyne.Do(func() {
		dialog.ShowInformation("Upcoming", message, a.window)
	})
}
