package ui

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/agenda/pkg/models"
	"github.com/borgmon/agenda/pkg/ui/components"
	"github.com/google/uuid"
)

const savedMessage = "Settings saved successfully"

var (
	intervalOptions     = []string{"15 min", "30 min", "45 min", "60 min", "90 min", "120 min"}
	subscriptionOptions = []string{"7 days", "14 days", "31 days", "62 days", "93 days"}
)

// SettingsWindow edits the owner, launch at login, reminders and subscriptions
type SettingsWindow struct {
	window       fyne.Window
	app          fyne.App
	config       *models.Config
	onSave       func(*models.Config)
	setAutostart func(bool) error

	// General tab
	ownerEntry     *widget.Entry
	autoStartCheck *widget.Check

	// Calendars tab
	sourcesList     *widget.List
	sourcesData     []models.ICalSource
	selectedSource  int
	intervalSelect  *widget.Select
	daysAheadSelect *widget.Select

	// Reminders tab
	reminderList *components.ListManager

	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

// NewSettingsWindow creates the window. setAutostart is applied before
// onSave when the configuration is saved.
func NewSettingsWindow(app fyne.App, config *models.Config, setAutostart func(bool) error, onSave func(*models.Config)) *SettingsWindow {
	sw := &SettingsWindow{
		app:            app,
		config:         config,
		onSave:         onSave,
		setAutostart:   setAutostart,
		selectedSource: -1,
	}

	sw.window = app.NewWindow("Agenda - Settings")
	sw.buildUI()

	return sw
}

func (sw *SettingsWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("General", sw.buildGeneralTab()),
		container.NewTabItem("Calendars", sw.buildCalendarsTab()),
		container.NewTabItem("Reminders", sw.buildRemindersTab()),
	)
	// Filling the widgets above fires their change callbacks
	sw.hasUnsavedChanges = false

	sw.saveStatusLabel = widget.NewLabel("")
	sw.saveButton = widget.NewButton("Save", sw.save)
	sw.saveButton.Importance = widget.HighImportance
	sw.saveButton.Disable()

	closeButton := widget.NewButton("Close", sw.handleClose)

	buttonRow := container.NewBorder(nil, nil,
		container.NewHBox(sw.saveButton, sw.saveStatusLabel),
		closeButton,
	)

	sw.window.SetContent(container.NewBorder(nil, container.NewPadded(buttonRow), nil, nil, tabs))
	sw.window.Resize(fyne.NewSize(720, 560))
	sw.window.CenterOnScreen()
	sw.window.SetCloseIntercept(sw.handleClose)
}

func (sw *SettingsWindow) buildGeneralTab() fyne.CanvasObject {
	sw.ownerEntry = widget.NewEntry()
	sw.ownerEntry.SetText(sw.config.Owner.Name)
	sw.ownerEntry.SetPlaceHolder("Your name")
	sw.ownerEntry.OnChanged = func(string) { sw.markChanged() }

	sw.autoStartCheck = widget.NewCheck("Launch Agenda at login", func(bool) { sw.markChanged() })
	sw.autoStartCheck.SetChecked(sw.config.AutoStart)

	storageEntry := widget.NewEntry()
	storageEntry.SetText(sw.app.Storage().RootURI().String())
	storageEntry.Disable()

	ownerHelp := widget.NewLabel("Recorded on every event you create")
	ownerHelp.Importance = widget.MediumImportance
	storageHelp := widget.NewLabel("Events and settings are stored here")
	storageHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(widget.NewLabel("Name:"), ownerHelp),
		sw.ownerEntry,

		widget.NewLabel("Auto Start:"),
		sw.autoStartCheck,

		container.NewVBox(widget.NewLabel("Storage Location:"), storageHelp),
		storageEntry,
	)

	return container.NewPadded(container.NewVScroll(container.NewVBox(
		widget.NewLabel("General Settings"),
		widget.NewSeparator(),
		form,
	)))
}

func (sw *SettingsWindow) buildCalendarsTab() fyne.CanvasObject {
	sw.sourcesData = append([]models.ICalSource{}, sw.config.ICalSources...)

	sw.sourcesList = widget.NewList(
		func() int {
			return len(sw.sourcesData)
		},
		func() fyne.CanvasObject {
			nameLabel := widget.NewLabel("Name")
			nameLabel.TextStyle.Bold = true
			urlLabel := widget.NewLabel("URL")
			urlLabel.Truncation = fyne.TextTruncateEllipsis
			return container.NewVBox(nameLabel, urlLabel)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			vbox := o.(*fyne.Container)
			vbox.Objects[0].(*widget.Label).SetText(sw.sourcesData[i].Name)
			vbox.Objects[1].(*widget.Label).SetText(sw.sourcesData[i].URL)
		})
	sw.sourcesList.OnSelected = func(id widget.ListItemID) {
		sw.selectedSource = id
	}

	plusButton := widget.NewButtonWithIcon("", theme.ContentAddIcon(), sw.showAddSourceDialog)
	minusButton := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		if sw.selectedSource < 0 || sw.selectedSource >= len(sw.sourcesData) {
			return
		}
		name := sw.sourcesData[sw.selectedSource].Name
		dialog.ShowConfirm("Remove Calendar",
			fmt.Sprintf("Are you sure you want to remove '%s'?", name),
			func(confirmed bool) {
				if confirmed {
					sw.removeSource(sw.selectedSource)
				}
			}, sw.window)
	})

	listScroll := container.NewScroll(sw.sourcesList)
	listScroll.SetMinSize(fyne.NewSize(0, 200))
	listWithBorder := container.NewBorder(
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		listScroll,
	)

	sw.intervalSelect = widget.NewSelect(intervalOptions, func(string) { sw.markChanged() })
	sw.intervalSelect.SetSelected(fmt.Sprintf("%d min", sw.config.UpdateInterval))

	sw.daysAheadSelect = widget.NewSelect(subscriptionOptions, func(string) { sw.markChanged() })
	sw.daysAheadSelect.SetSelected(fmt.Sprintf("%d days", sw.config.SubscriptionDays))

	sourcesHelp := widget.NewLabel("Subscribed calendars are shown read-only next to your events.")
	sourcesHelp.Wrapping = fyne.TextWrapWord
	sourcesHelp.Importance = widget.MediumImportance

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(widget.NewLabel("Subscriptions:"), sourcesHelp),
		container.NewVBox(listWithBorder, container.NewHBox(plusButton, minusButton)),

		widget.NewLabel("Update Interval:"),
		sw.intervalSelect,

		widget.NewLabel("Days Ahead:"),
		sw.daysAheadSelect,
	)

	return container.NewPadded(container.NewVScroll(container.NewVBox(
		widget.NewLabel("Calendar Subscriptions"),
		widget.NewSeparator(),
		form,
	)))
}

func (sw *SettingsWindow) showAddSourceDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g., Public Holidays")
	nameEntry.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("name is required")
		}
		return nil
	}

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://calendar.example.com/ical/...")
	urlEntry.Validator = sw.validateSourceURL

	items := []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("URL", urlEntry),
	}

	addDialog := dialog.NewForm("Add Calendar", "Add", "Cancel", items, func(confirmed bool) {
		if confirmed {
			sw.addSource(nameEntry.Text, urlEntry.Text)
		}
	}, sw.window)
	addDialog.Resize(fyne.NewSize(560, 240))
	addDialog.Show()
}

func (sw *SettingsWindow) validateSourceURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("URL is required")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "webcal://") {
		return errors.New("URL must start with http://, https:// or webcal://")
	}
	for _, existing := range sw.sourcesData {
		if existing.URL == s {
			return errors.New("this calendar URL has already been added")
		}
	}
	return nil
}

func (sw *SettingsWindow) addSource(name, url string) {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "webcal://") {
		url = "https://" + strings.TrimPrefix(url, "webcal://")
	}

	sw.sourcesData = append(sw.sourcesData, models.ICalSource{
		ID:   uuid.New().String(),
		Name: strings.TrimSpace(name),
		URL:  url,
	})
	sw.sourcesList.Refresh()
	sw.markChanged()
}

func (sw *SettingsWindow) removeSource(index int) {
	sw.sourcesData = append(sw.sourcesData[:index], sw.sourcesData[index+1:]...)
	sw.sourcesList.UnselectAll()
	sw.selectedSource = -1
	sw.sourcesList.Refresh()
	sw.markChanged()
}

func (sw *SettingsWindow) buildRemindersTab() fyne.CanvasObject {
	data := []string{}
	for _, minutes := range sw.config.GetReminderMinutes() {
		data = append(data, strconv.Itoa(minutes))
	}

	var listContainer *fyne.Container
	sw.reminderList, listContainer = components.NewListManager(data, components.ListManagerConfig{
		Placeholder: "Minutes before start",
		RenderItem:  reminderLabel,
		Validate:    sw.validateReminder,
		OnChange:    sw.markChanged,
		Window:      sw.window,
	})

	help := widget.NewLabel("A notification and a chime are played this many minutes before each event. Use 0 for the start time.")
	help.Wrapping = fyne.TextWrapWord
	help.Importance = widget.MediumImportance

	return container.NewPadded(container.NewVScroll(container.NewVBox(
		widget.NewLabel("Reminders"),
		widget.NewSeparator(),
		help,
		listContainer,
	)))
}

func reminderLabel(item string) string {
	if item == "0" {
		return "At start time"
	}
	return item + " min before"
}

func (sw *SettingsWindow) validateReminder(item string) error {
	minutes, err := strconv.Atoi(strings.TrimSpace(item))
	if err != nil || minutes < 0 {
		return errors.New("enter a whole number of minutes, 0 or more")
	}
	for _, existing := range sw.reminderList.GetData() {
		if existing == strconv.Itoa(minutes) {
			return errors.New("this reminder has already been added")
		}
	}
	return nil
}

func parseLeadingInt(value string, fallback int) int {
	var val int
	if _, err := fmt.Sscanf(value, "%d", &val); err != nil {
		return fallback
	}
	return val
}

func (sw *SettingsWindow) getConfigFromUI() *models.Config {
	reminders := []int{}
	for _, item := range sw.reminderList.GetData() {
		if minutes, err := strconv.Atoi(strings.TrimSpace(item)); err == nil {
			reminders = append(reminders, minutes)
		}
	}
	sort.Ints(reminders)
	parts := make([]string, len(reminders))
	for i, minutes := range reminders {
		parts[i] = strconv.Itoa(minutes)
	}

	return &models.Config{
		AutoStart: sw.autoStartCheck.Checked,
		Owner: models.User{
			ID:   sw.config.Owner.ID,
			Name: strings.TrimSpace(sw.ownerEntry.Text),
		},
		ICalSources:      append([]models.ICalSource{}, sw.sourcesData...),
		UpdateInterval:   parseLeadingInt(sw.intervalSelect.Selected, sw.config.UpdateInterval),
		ReminderMinutes:  strings.Join(parts, ","),
		SubscriptionDays: parseLeadingInt(sw.daysAheadSelect.Selected, sw.config.SubscriptionDays),
	}
}

func (sw *SettingsWindow) save() {
	sw.saveButton.Disable()
	sw.saveStatusLabel.SetText("Saving...")
	sw.saveStatusLabel.Importance = widget.MediumImportance
	sw.saveStatusLabel.Refresh()

	newConfig := sw.getConfigFromUI()
	go func() {
		if sw.setAutostart != nil {
			if err := sw.setAutostart(newConfig.AutoStart); err != nil {
				log.Printf("[SETTINGS] Error setting autostart: %v", err)
				fyne.Do(func() {
					sw.saveStatusLabel.SetText("Error: Failed to set autostart")
					sw.saveStatusLabel.Importance = widget.DangerImportance
					sw.saveStatusLabel.Refresh()
					sw.updateSaveButtonState()
				})
				return
			}
		}

		if sw.onSave != nil {
			sw.onSave(newConfig)
		}

		fyne.Do(func() {
			sw.config = newConfig
			sw.hasUnsavedChanges = false
			sw.saveStatusLabel.SetText(savedMessage)
			sw.saveStatusLabel.Importance = widget.SuccessImportance
			sw.saveStatusLabel.Refresh()
			sw.updateSaveButtonState()

			go func() {
				time.Sleep(3 * time.Second)
				fyne.Do(func() {
					if sw.saveStatusLabel.Text == savedMessage {
						sw.saveStatusLabel.SetText("")
					}
				})
			}()
		})
	}()
}

// Window returns the underlying window
func (sw *SettingsWindow) Window() fyne.Window {
	return sw.window
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
}

func (sw *SettingsWindow) markChanged() {
	sw.hasUnsavedChanges = true
	sw.updateSaveButtonState()
}

func (sw *SettingsWindow) updateSaveButtonState() {
	if sw.saveButton == nil {
		return
	}
	if sw.hasUnsavedChanges {
		sw.saveButton.Enable()
	} else {
		sw.saveButton.Disable()
	}
}

func (sw *SettingsWindow) handleClose() {
	if sw.hasActualChanges() {
		dialog.ShowConfirm("Unsaved Changes",
			"You have unsaved changes. Are you sure you want to close?",
			func(confirmed bool) {
				if confirmed {
					sw.window.Close()
				}
			}, sw.window)
		return
	}
	sw.window.Close()
}

// hasActualChanges checks if the current UI state differs from the saved config
func (sw *SettingsWindow) hasActualChanges() bool {
	current := sw.getConfigFromUI()

	if current.AutoStart != sw.config.AutoStart ||
		current.Owner != sw.config.Owner ||
		current.UpdateInterval != sw.config.UpdateInterval ||
		current.SubscriptionDays != sw.config.SubscriptionDays {
		return true
	}

	saved := sw.config.GetReminderMinutes()
	sort.Ints(saved)
	if fmt.Sprint(saved) != fmt.Sprint(current.GetReminderMinutes()) {
		return true
	}

	if len(current.ICalSources) != len(sw.config.ICalSources) {
		return true
	}
	for i := range current.ICalSources {
		if current.ICalSources[i] != sw.config.ICalSources[i] {
			return true
		}
	}

	return false
}
