// Package form holds the edit state behind the event modal: one draft event,
// its validation and its hand-off to the event store.
package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/borgmon/agenda/pkg/models"
)

// Field names accepted by SetField and SetDateField
const (
	FieldTitle = "title"
	FieldNotes = "notes"
	FieldStart = "start"
	FieldEnd   = "end"
)

// DefaultDuration is the length of a new event when the modal opens blank
const DefaultDuration = 2 * time.Hour

var (
	ErrIncorrectDates = errors.New("end must be after start")
	ErrEmptyTitle     = errors.New("title is required")
	ErrUnknownField   = errors.New("unknown field")
	ErrSaveFailed     = errors.New("failed to save event")
)

// EventSaver persists a submitted draft. It creates the event when the draft
// has no ID and updates it otherwise.
type EventSaver interface {
	SaveEvent(ctx context.Context, event models.CalendarEvent) error
}

// ModalCloser closes the edit modal after a successful save
type ModalCloser interface {
	CloseEditModal()
}

// Alerter shows a blocking notice to the user
type Alerter interface {
	Alert(notice Notice)
}

// EventForm owns the draft for a single edit session. The saver, closer and
// alerter are called without the lock held.
type EventForm struct {
	mu        sync.Mutex
	values    models.CalendarEvent
	submitted bool

	saver   EventSaver
	closer  ModalCloser
	alerter Alerter
}

// NewEventForm creates a form whose draft starts at now and lasts DefaultDuration
func NewEventForm(saver EventSaver, closer ModalCloser, alerter Alerter, now time.Time) *EventForm {
	f := &EventForm{
		saver:   saver,
		closer:  closer,
		alerter: alerter,
	}
	f.Reset(now)
	return f
}

// Reset discards the draft and starts a blank one
func (f *EventForm) Reset(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = models.CalendarEvent{
		Start: now,
		End:   now.Add(DefaultDuration),
	}
	f.submitted = false
}

// Values returns a copy of the current draft
func (f *EventForm) Values() models.CalendarEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Submitted reports whether a submit has been attempted since the last successful save
func (f *EventForm) Submitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// LoadActiveEvent replaces the whole draft with a copy of event.
// A nil event leaves the draft as it is.
func (f *EventForm) LoadActiveEvent(event *models.CalendarEvent) {
	if event == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = *event
}

// SetField updates a text field of the draft
func (f *EventForm) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldTitle:
		f.values.Title = value
	case FieldNotes:
		f.values.Notes = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// SetDateField updates the start or end of the draft. Pass the zero time when
// the user's input could not be parsed.
func (f *EventForm) SetDateField(which string, value time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch which {
	case FieldStart:
		f.values.Start = value
	case FieldEnd:
		f.values.End = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, which)
	}
	return nil
}

// TitleInvalid reports whether the title should be marked invalid. It only
// turns true after a submit attempt.
func (f *EventForm) TitleInvalid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted && strings.TrimSpace(f.values.Title) == ""
}

// Submit validates the draft and hands it to the saver.
//
// An invalid date range shows NoticeIncorrectDates and returns ErrIncorrectDates.
// An empty title returns ErrEmptyTitle without any notice so the user can keep
// typing. A failed save shows NoticeSaveFailed, keeps the draft and leaves the
// modal open.
func (f *EventForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	f.submitted = true
	draft := f.values
	f.mu.Unlock()

	if !validRange(draft.Start, draft.End) {
		log.Printf("[FORM] Rejected draft with incorrect dates (start: %v, end: %v)", draft.Start, draft.End)
		f.alert(NoticeIncorrectDates)
		return ErrIncorrectDates
	}

	if strings.TrimSpace(draft.Title) == "" {
		return ErrEmptyTitle
	}

	if err := f.saver.SaveEvent(ctx, draft); err != nil {
		log.Printf("[FORM] Save failed for \"%s\": %v", draft.Title, err)
		f.alert(NoticeSaveFailed)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	if f.closer != nil {
		f.closer.CloseEditModal()
	}
	f.mu.Lock()
	f.submitted = false
	f.mu.Unlock()
	return nil
}

func (f *EventForm) alert(n Notice) {
	if f.alerter != nil {
		f.alerter.Alert(n)
	}
}

// validRange reports whether end is at least one whole second after start.
// A zero timestamp stands for unparseable input.
func validRange(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	difference := int64(end.Sub(start) / time.Second)
	return difference > 0
}
