package main

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/agenda/pkg/calendar"
	"github.com/borgmon/agenda/pkg/models"
	"github.com/borgmon/agenda/pkg/platform"
	"github.com/borgmon/agenda/pkg/reminder"
	"github.com/borgmon/agenda/pkg/store"
	"github.com/borgmon/agenda/pkg/ui"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

const appID = "io.github.borgmon.agenda"

type Agenda struct {
	app         fyne.App
	window      fyne.Window
	configStore *store.ConfigStore
	events      *store.EventStore
	uiStore     *store.UIStore
	reminders   *reminder.Scheduler
	fetcher     *calendar.Fetcher

	view           *ui.CalendarView
	modal          *ui.EventModal
	settingsWindow *ui.SettingsWindow

	mu     sync.RWMutex
	config *models.Config

	// Serializes subscription syncs; guards subscribed
	syncMu     sync.Mutex
	subscribed map[string]bool

	// Guards the sync ticker, replaced when settings change
	tickerMu       sync.Mutex
	syncTicker     *time.Ticker
	syncStop       chan struct{}
	reminderTicker *time.Ticker
	reminderStop   chan struct{}
}

func main() {
	cliApp := &cli.App{
		Name:  "agenda",
		Usage: "A desktop calendar with reminders and iCal subscriptions.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "hidden", Usage: "Start in the system tray without opening the calendar window."},
		},
		Action: func(c *cli.Context) error {
			return runApp(c.Bool("hidden"))
		},
		Commands: []*cli.Command{
			checkCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runApp(hidden bool) error {
	a := &Agenda{
		app:        app.NewWithID(appID),
		uiStore:    store.NewUIStore(),
		reminders:  reminder.NewScheduler(),
		fetcher:    calendar.NewFetcher(),
		subscribed: make(map[string]bool),
	}

	if err := a.initialize(); err != nil {
		return err
	}

	if hidden {
		a.app.Run()
	} else {
		a.window.ShowAndRun()
	}
	return nil
}

func (a *Agenda) initialize() error {
	a.configStore = store.NewConfigStore(a.app.Preferences())
	config := a.configStore.Load()
	if config.Owner.ID == "" {
		config.Owner.ID = uuid.New().String()
	}
	a.configStore.Save(config)
	a.config = config

	// Sync autostart state with config on startup
	if err := setupAutostart(config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	persister, err := store.NewFilePersister(a.app.Storage().RootURI(), store.EventsFileName)
	if err != nil {
		return err
	}
	a.events = store.NewEventStore(persister)
	a.events.SetOwner(config.Owner)

	a.window = a.app.NewWindow("Agenda")
	a.buildMainWindow()

	loadErr := a.events.Load(context.Background())
	if loadErr != nil {
		log.Printf("[STORE] %v", loadErr)
	} else {
		log.Printf("[STORE] Loaded %d local events from %s", len(a.events.LocalEvents()), persister.URI())
	}

	a.wireStores()
	a.view.Render(a.events.Events())

	a.setupSystemTray()
	a.startBackgroundSync()
	a.startReminderChecker()

	if loadErr != nil {
		dialog.ShowError(loadErr, a.window)
	}
	return nil
}

func (a *Agenda) buildMainWindow() {
	a.view = ui.NewCalendarView(store.NewViewPreference(a.app.Preferences()), time.Now())
	a.modal = ui.NewEventModal(a.window, a.events, a.uiStore, ui.NewDialogAlerter(a.window))

	a.view.OnSelect = func(event models.CalendarEvent) {
		a.events.SetActiveEvent(&event)
	}
	a.view.OnDoubleClick = a.openEvent

	newButton := widget.NewButtonWithIcon("New Event", theme.ContentAddIcon(), a.newEvent)
	newButton.Importance = widget.HighImportance
	settingsButton := widget.NewButtonWithIcon("", theme.SettingsIcon(), a.showSettingsWindow)

	header := container.NewBorder(nil, nil, newButton, settingsButton)
	a.window.SetContent(container.NewBorder(container.NewPadded(header), nil, nil, nil, a.view.Widget()))
	a.window.Resize(fyne.NewSize(1024, 720))

	// Keep running in the tray so reminders still fire
	a.window.SetCloseIntercept(func() {
		a.window.Hide()
	})
}

func (a *Agenda) wireStores() {
	a.events.OnChange(func() {
		events := a.events.Events()
		a.reminders.Sync(events, a.currentConfig().GetReminderMinutes(), time.Now())
		fyne.Do(func() {
			a.view.Render(events)
			a.updateSystemTrayMenu()
		})
	})

	a.uiStore.OnModalChange(func(open bool) {
		fyne.Do(func() {
			if open {
				a.modal.Show(time.Now())
			} else {
				a.modal.Hide()
			}
		})
	})
}

func (a *Agenda) currentConfig() *models.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// newEvent opens the modal on a fresh draft
func (a *Agenda) newEvent() {
	a.window.Show()
	platform.ActivateApp()

	a.events.SetActiveEvent(nil)
	if a.uiStore.IsEditModalOpen() {
		a.uiStore.CloseEditModal()
	}
	a.uiStore.OpenEditModal()
}

// openEvent edits a local event, or shows the details of a subscribed one
func (a *Agenda) openEvent(event models.CalendarEvent) {
	if event.IsReadOnly() {
		a.showReadOnlyEvent(event)
		return
	}
	a.events.SetActiveEvent(&event)
	if a.uiStore.IsEditModalOpen() {
		a.uiStore.CloseEditModal()
	}
	a.uiStore.OpenEditModal()
}

// openEventByID looks the event up again since the tray menu may be stale
func (a *Agenda) openEventByID(id string) {
	event, ok := a.events.GetEvent(id)
	if !ok {
		log.Printf("[STORE] Event %s no longer exists", id)
		return
	}
	a.window.Show()
	platform.ActivateApp()
	a.openEvent(event)
}

func (a *Agenda) showReadOnlyEvent(event models.CalendarEvent) {
	details := event.Start.Format("Mon 2 Jan 15:04") + " - " + event.End.Format("15:04")
	if event.Notes != "" {
		details += "\n\n" + event.Notes
	}
	dialog.ShowInformation(event.Title, details, a.window)
}

func (a *Agenda) showSettingsWindow() {
	// If the settings window already exists, just bring it to front
	if a.settingsWindow != nil {
		a.settingsWindow.Window().RequestFocus()
		a.settingsWindow.Show()
		return
	}

	a.settingsWindow = ui.NewSettingsWindow(a.app, a.currentConfig(), setupAutostart, a.applyConfig)
	a.settingsWindow.Window().SetOnClosed(func() {
		a.settingsWindow = nil
	})
	a.settingsWindow.Show()
}

// applyConfig persists a new configuration and resyncs everything that
// depends on it
func (a *Agenda) applyConfig(config *models.Config) {
	a.mu.Lock()
	a.config = config
	a.mu.Unlock()

	a.configStore.Save(config)
	a.events.SetOwner(config.Owner)
	a.reminders.Sync(a.events.Events(), config.GetReminderMinutes(), time.Now())
	a.restartBackgroundSync()
}

func (a *Agenda) quit() {
	a.stopBackgroundSync()
	if a.reminderTicker != nil {
		a.reminderTicker.Stop()
		close(a.reminderStop)
	}
	a.app.Quit()
}
