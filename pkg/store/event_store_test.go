package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/agenda/pkg/models"
)

type memoryPersister struct {
	saved   [][]models.CalendarEvent
	initial []models.CalendarEvent
	failOn  int // fail the n-th SaveEvents call, 1-based; 0 never fails
}

func (p *memoryPersister) LoadEvents(context.Context) ([]models.CalendarEvent, error) {
	return p.initial, nil
}

func (p *memoryPersister) SaveEvents(_ context.Context, events []models.CalendarEvent) error {
	if p.failOn == len(p.saved)+1 {
		p.saved = append(p.saved, nil)
		return errors.New("write failed")
	}
	p.saved = append(p.saved, events)
	return nil
}

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func draft(title string, start time.Time) models.CalendarEvent {
	return models.CalendarEvent{Title: title, Start: start, End: start.Add(time.Hour)}
}

func TestSaveEvent_CreateAssignsID(t *testing.T) {
	persister := &memoryPersister{}
	s := NewEventStore(persister)

	require.NoError(t, s.SaveEvent(context.Background(), draft("Review", t0)))

	events := s.Events()
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, "Review", events[0].Title)
	require.Len(t, persister.saved, 1)
	assert.Equal(t, events, persister.saved[0])
}

func TestSaveEvent_CreateStampsOwner(t *testing.T) {
	s := NewEventStore(nil)
	owner := models.User{ID: "123", Name: "Cesar"}
	s.SetOwner(owner)

	require.NoError(t, s.SaveEvent(context.Background(), draft("Mine", t0)))
	other := draft("Theirs", t0.Add(time.Hour))
	other.User = models.User{ID: "456", Name: "Ana"}
	require.NoError(t, s.SaveEvent(context.Background(), other))

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, owner, events[0].User)
	assert.Equal(t, other.User, events[1].User)
}

func TestSaveEvent_UpdateReplacesInPlace(t *testing.T) {
	s := NewEventStore(nil)
	require.NoError(t, s.SaveEvent(context.Background(), draft("Review", t0)))
	created := s.Events()[0]

	created.Title = "Design review"
	created.Notes = "bring mockups"
	require.NoError(t, s.SaveEvent(context.Background(), created))

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, created, events[0])
}

func TestSaveEvent_UnknownIDFails(t *testing.T) {
	s := NewEventStore(nil)
	event := draft("Ghost", t0)
	event.ID = "missing"

	err := s.SaveEvent(context.Background(), event)

	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.Empty(t, s.Events())
}

func TestSaveEvent_RejectsSubscribedEvent(t *testing.T) {
	s := NewEventStore(nil)
	event := draft("Holiday", t0)
	event.ID = "h1"
	event.SourceID = "holidays"

	assert.ErrorIs(t, s.SaveEvent(context.Background(), event), ErrReadOnly)
}

func TestSaveEvent_PersistFailureRollsBack(t *testing.T) {
	persister := &memoryPersister{failOn: 2}
	s := NewEventStore(persister)
	require.NoError(t, s.SaveEvent(context.Background(), draft("Review", t0)))
	original := s.Events()[0]

	edited := original
	edited.Title = "Edited"
	err := s.SaveEvent(context.Background(), edited)

	require.Error(t, err)
	assert.Equal(t, []models.CalendarEvent{original}, s.Events())

	persister.failOn = 3
	err = s.SaveEvent(context.Background(), draft("Another", t0))
	require.Error(t, err)
	assert.Len(t, s.Events(), 1)
}

func TestSaveEvent_CanceledContext(t *testing.T) {
	s := NewEventStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.SaveEvent(ctx, draft("Review", t0)), context.Canceled)
	assert.Empty(t, s.Events())
}

func TestSaveEvent_ClearsActiveEvent(t *testing.T) {
	s := NewEventStore(nil)
	require.NoError(t, s.SaveEvent(context.Background(), draft("Review", t0)))
	event := s.Events()[0]
	s.SetActiveEvent(&event)
	require.NotNil(t, s.ActiveEvent())

	require.NoError(t, s.SaveEvent(context.Background(), event))

	assert.Nil(t, s.ActiveEvent())
}

func TestActiveEvent_ReturnsCopy(t *testing.T) {
	s := NewEventStore(nil)
	event := draft("Review", t0)
	s.SetActiveEvent(&event)

	event.Title = "changed by caller"
	active := s.ActiveEvent()
	require.NotNil(t, active)
	assert.Equal(t, "Review", active.Title)

	active.Title = "changed again"
	assert.Equal(t, "Review", s.ActiveEvent().Title)

	s.SetActiveEvent(nil)
	assert.Nil(t, s.ActiveEvent())
}

func TestEvents_MergesSubscriptionsInOrder(t *testing.T) {
	s := NewEventStore(nil)
	require.NoError(t, s.SaveEvent(context.Background(), draft("Local late", t0.Add(3*time.Hour))))
	require.NoError(t, s.SaveEvent(context.Background(), draft("B same time", t0)))

	holiday := draft("A same time", t0)
	holiday.ID = "h1"
	s.SetSubscribedEvents("holidays", []models.CalendarEvent{holiday})

	events := s.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "A same time", events[0].Title)
	assert.Equal(t, "holidays", events[0].SourceID)
	assert.Equal(t, "B same time", events[1].Title)
	assert.Equal(t, "Local late", events[2].Title)
	assert.Len(t, s.LocalEvents(), 2)

	got, ok := s.GetEvent("h1")
	assert.True(t, ok)
	assert.Equal(t, "A same time", got.Title)

	s.RemoveSubscription("holidays")
	assert.Len(t, s.Events(), 2)
}

func TestDeleteEvent(t *testing.T) {
	persister := &memoryPersister{}
	s := NewEventStore(persister)
	require.NoError(t, s.SaveEvent(context.Background(), draft("Review", t0)))
	id := s.Events()[0].ID

	require.NoError(t, s.DeleteEvent(context.Background(), id))
	assert.Empty(t, s.Events())
	assert.ErrorIs(t, s.DeleteEvent(context.Background(), id), ErrEventNotFound)
}

func TestLoad_RestoresPersistedEvents(t *testing.T) {
	persisted := draft("Persisted", t0)
	persisted.ID = "p1"
	s := NewEventStore(&memoryPersister{initial: []models.CalendarEvent{persisted}})

	require.NoError(t, s.Load(context.Background()))

	got, ok := s.GetEvent("p1")
	require.True(t, ok)
	assert.Equal(t, persisted, got)
}

func TestOnChange_NotifiesAfterMutation(t *testing.T) {
	s := NewEventStore(nil)
	calls := 0
	s.OnChange(func() {
		calls++
		// Listeners run outside the lock and may read the store
		_ = s.Events()
	})

	require.NoError(t, s.SaveEvent(context.Background(), draft("Review", t0)))
	s.SetActiveEvent(nil)
	s.SetSubscribedEvents("x", nil)

	assert.Equal(t, 3, calls)
}
