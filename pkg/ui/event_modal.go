package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/agenda/pkg/form"
	"github.com/borgmon/agenda/pkg/models"
	"github.com/borgmon/agenda/pkg/store"
)

// DateLayout is how start and end times are typed in the modal
const DateLayout = "2006-01-02 15:04"

// EventModal is the create/edit dialog backed by an EventForm
type EventModal struct {
	window fyne.Window
	form   *form.EventForm
	events *store.EventStore
	closer form.ModalCloser

	titleEntry *widget.Entry
	notesEntry *widget.Entry
	startEntry *widget.Entry
	endEntry   *widget.Entry
	saveButton *widget.Button
	deleteBtn  *widget.Button
	dialog     *dialog.CustomDialog

	// Set while entries are filled from the draft so OnChanged ignores them
	filling bool
}

// NewEventModal saves through events and closes through closer, which is
// expected to call Hide once the modal state changes
func NewEventModal(window fyne.Window, events *store.EventStore, closer form.ModalCloser, alerter form.Alerter) *EventModal {
	m := &EventModal{
		window: window,
		events: events,
		closer: closer,
		form:   form.NewEventForm(events, closer, alerter, time.Now()),
	}
	m.buildUI()
	return m
}

func (m *EventModal) buildUI() {
	m.titleEntry = widget.NewEntry()
	m.titleEntry.SetPlaceHolder("Title")
	m.titleEntry.Validator = func(s string) error {
		if m.form.Submitted() && strings.TrimSpace(s) == "" {
			return form.ErrEmptyTitle
		}
		return nil
	}
	m.titleEntry.OnChanged = func(s string) {
		m.setField(form.FieldTitle, s)
	}

	m.notesEntry = widget.NewMultiLineEntry()
	m.notesEntry.SetPlaceHolder("Notes")
	m.notesEntry.Wrapping = fyne.TextWrapWord
	m.notesEntry.SetMinRowsVisible(4)
	m.notesEntry.OnChanged = func(s string) {
		m.setField(form.FieldNotes, s)
	}

	m.startEntry = widget.NewEntry()
	m.startEntry.SetPlaceHolder(DateLayout)
	m.startEntry.OnChanged = func(s string) {
		m.setDate(form.FieldStart, s)
	}

	m.endEntry = widget.NewEntry()
	m.endEntry.SetPlaceHolder(DateLayout)
	m.endEntry.OnChanged = func(s string) {
		m.setDate(form.FieldEnd, s)
	}

	m.saveButton = widget.NewButtonWithIcon("Save", theme.ConfirmIcon(), m.Submit)
	m.saveButton.Importance = widget.HighImportance
	m.deleteBtn = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), m.confirmDelete)
	m.deleteBtn.Importance = widget.DangerImportance
}

func (m *EventModal) setField(name, value string) {
	if m.filling {
		return
	}
	if err := m.form.SetField(name, value); err != nil {
		log.Printf("[FORM] %v", err)
	}
}

func (m *EventModal) setDate(which, text string) {
	if m.filling {
		return
	}
	if err := m.form.SetDateField(which, ParseDate(text)); err != nil {
		log.Printf("[FORM] %v", err)
	}
}

// ParseDate reads a DateLayout time in the local zone. Unreadable input gives
// the zero time, which the form rejects as an incorrect date.
func ParseDate(text string) time.Time {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate is the inverse of ParseDate, zero times format as ""
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// Form exposes the underlying controller
func (m *EventModal) Form() *form.EventForm {
	return m.form
}

// Show opens the modal on the store's active event, or a new draft when
// there is none
func (m *EventModal) Show(now time.Time) {
	m.form.Reset(now.Truncate(time.Minute))
	m.form.LoadActiveEvent(m.events.ActiveEvent())
	m.fill(m.form.Values())

	heading := "New event"
	m.deleteBtn.Hide()
	if !m.form.Values().IsDraft() {
		heading = "Edit event"
		m.deleteBtn.Show()
	}

	cancelButton := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), m.closer.CloseEditModal)

	fields := widget.NewForm(
		widget.NewFormItem("Title", m.titleEntry),
		widget.NewFormItem("Notes", m.notesEntry),
		widget.NewFormItem("Start", m.startEntry),
		widget.NewFormItem("End", m.endEntry),
	)
	buttons := container.NewBorder(nil, nil, m.deleteBtn, container.NewHBox(cancelButton, m.saveButton))

	m.dialog = dialog.NewCustomWithoutButtons(heading, container.NewVBox(fields, widget.NewSeparator(), buttons), m.window)
	m.dialog.Resize(fyne.NewSize(480, 0))
	m.dialog.Show()
	m.window.Canvas().Focus(m.titleEntry)
}

func (m *EventModal) fill(values models.CalendarEvent) {
	m.filling = true
	defer func() { m.filling = false }()

	m.titleEntry.SetText(values.Title)
	m.notesEntry.SetText(values.Notes)
	m.startEntry.SetText(FormatDate(values.Start))
	m.endEntry.SetText(FormatDate(values.End))
	m.titleEntry.SetValidationError(nil)
}

// Hide closes the dialog without touching the draft
func (m *EventModal) Hide() {
	if m.dialog != nil {
		m.dialog.Hide()
		m.dialog = nil
	}
}

// Submit runs the form submission off the UI thread
func (m *EventModal) Submit() {
	m.saveButton.Disable()
	go func() {
		err := m.form.Submit(context.Background())
		fyne.Do(func() {
			m.saveButton.Enable()
			m.titleEntry.Validate()
		})
		if err != nil && !errors.Is(err, form.ErrSaveFailed) {
			log.Printf("[FORM] Submit rejected: %v", err)
		}
	}()
}

func (m *EventModal) confirmDelete() {
	draft := m.form.Values()
	if draft.IsDraft() {
		return
	}

	dialog.ShowConfirm("Delete event", "Delete \""+draft.Title+"\"?", func(confirmed bool) {
		if !confirmed {
			return
		}
		go func() {
			if err := m.events.DeleteEvent(context.Background(), draft.ID); err != nil {
				log.Printf("[FORM] Delete failed for \"%s\": %v", draft.Title, err)
				fyne.Do(func() { dialog.ShowError(err, m.window) })
				return
			}
			m.closer.CloseEditModal()
		}()
	}, m.window)
}
