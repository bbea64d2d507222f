package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrReadOnly      = errors.New("event belongs to a subscription and cannot be changed")
)

// Persister loads and stores the full set of local events
type Persister interface {
	LoadEvents(ctx context.Context) ([]models.CalendarEvent, error)
	SaveEvents(ctx context.Context, events []models.CalendarEvent) error
}

// EventStore holds local events, subscribed events and the active event
type EventStore struct {
	mu sync.RWMutex

	// Map of event ID to locally created event
	events map[string]*models.CalendarEvent

	// Map of subscription ID to its read-only events
	subscribed map[string][]models.CalendarEvent

	// Event currently targeted for editing, nil when creating a new one
	active *models.CalendarEvent

	// Stamped on created events that carry no user
	owner models.User

	persister Persister
	listeners []func()
}

// NewEventStore creates an empty store. persister may be nil, in which case
// events only live in memory.
func NewEventStore(persister Persister) *EventStore {
	return &EventStore{
		events:     make(map[string]*models.CalendarEvent),
		subscribed: make(map[string][]models.CalendarEvent),
		persister:  persister,
	}
}

// OnChange registers a listener called after every mutation
func (s *EventStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *EventStore) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// Load replaces local events with the persisted ones
func (s *EventStore) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	events, err := s.persister.LoadEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	s.mu.Lock()
	s.events = make(map[string]*models.CalendarEvent, len(events))
	for i := range events {
		event := events[i]
		s.events[event.ID] = &event
	}
	s.mu.Unlock()

	log.Printf("[STORE] Loaded %d events", len(events))
	s.notify()
	return nil
}

// SetOwner sets the user recorded on events created without one
func (s *EventStore) SetOwner(owner models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
}

// ActiveEvent returns a copy of the active event, or nil in "new event" mode
func (s *EventStore) ActiveEvent() *models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return nil
	}
	active := *s.active
	return &active
}

// SetActiveEvent selects the event to edit. nil switches to "new event" mode.
func (s *EventStore) SetActiveEvent(event *models.CalendarEvent) {
	s.mu.Lock()
	if event == nil {
		s.active = nil
	} else {
		active := *event
		s.active = &active
	}
	s.mu.Unlock()

	s.notify()
}

// SaveEvent creates the event when it has no ID and updates it otherwise.
// On a persistence failure the in-memory change is rolled back.
func (s *EventStore) SaveEvent(ctx context.Context, event models.CalendarEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.IsReadOnly() {
		return ErrReadOnly
	}

	s.mu.Lock()

	var previous *models.CalendarEvent
	if event.IsDraft() {
		event.ID = uuid.New().String()
		if event.User.ID == "" && event.User.Name == "" {
			event.User = s.owner
		}
	} else {
		existing, exists := s.events[event.ID]
		if !exists {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrEventNotFound, event.ID)
		}
		previous = existing
	}

	s.events[event.ID] = &event

	if err := s.persistLocked(ctx); err != nil {
		if previous != nil {
			s.events[event.ID] = previous
		} else {
			delete(s.events, event.ID)
		}
		s.mu.Unlock()
		return err
	}

	s.active = nil
	s.mu.Unlock()

	if previous == nil {
		log.Printf("[STORE] Created event \"%s\" (%s)", event.Title, event.ID)
	} else {
		log.Printf("[STORE] Updated event \"%s\" (%s)", event.Title, event.ID)
	}
	s.notify()
	return nil
}

// DeleteEvent removes a local event
func (s *EventStore) DeleteEvent(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	existing, exists := s.events[id]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	delete(s.events, id)
	if err := s.persistLocked(ctx); err != nil {
		s.events[id] = existing
		s.mu.Unlock()
		return err
	}

	if s.active != nil && s.active.ID == id {
		s.active = nil
	}
	s.mu.Unlock()

	log.Printf("[STORE] Deleted event \"%s\" (%s)", existing.Title, id)
	s.notify()
	return nil
}

// persistLocked writes local events through the persister. Caller holds mu.
func (s *EventStore) persistLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveEvents(ctx, s.localEventsLocked()); err != nil {
		return fmt.Errorf("failed to persist events: %w", err)
	}
	return nil
}

func (s *EventStore) localEventsLocked() []models.CalendarEvent {
	result := make([]models.CalendarEvent, 0, len(s.events))
	for _, event := range s.events {
		result = append(result, *event)
	}
	sortEvents(result)
	return result
}

// SetSubscribedEvents replaces the events of one subscription
func (s *EventStore) SetSubscribedEvents(sourceID string, events []models.CalendarEvent) {
	s.mu.Lock()
	copied := make([]models.CalendarEvent, len(events))
	for i, event := range events {
		event.SourceID = sourceID
		copied[i] = event
	}
	s.subscribed[sourceID] = copied
	s.mu.Unlock()

	s.notify()
}

// RemoveSubscription drops all events of a subscription
func (s *EventStore) RemoveSubscription(sourceID string) {
	s.mu.Lock()
	delete(s.subscribed, sourceID)
	s.mu.Unlock()

	s.notify()
}

// GetEvent returns a copy of an event by ID, searching local events first
func (s *EventStore) GetEvent(id string) (models.CalendarEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if event, ok := s.events[id]; ok {
		return *event, true
	}
	for _, events := range s.subscribed {
		for _, event := range events {
			if event.ID == id {
				return event, true
			}
		}
	}
	return models.CalendarEvent{}, false
}

// LocalEvents returns locally created events ordered by start
func (s *EventStore) LocalEvents() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localEventsLocked()
}

// Events returns every event, local and subscribed, ordered by start then title
func (s *EventStore) Events() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.localEventsLocked()
	for _, events := range s.subscribed {
		result = append(result, events...)
	}
	sortEvents(result)
	return result
}

func sortEvents(events []models.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		if events[i].Title != events[j].Title {
			return events[i].Title < events[j].Title
		}
		return events[i].ID < events[j].ID
	})
}
