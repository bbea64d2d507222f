package reminder

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/google/uuid"
)

// Status tracks whether a reminder has been shown
type Status string

const (
	StatusPending Status = "Pending"
	StatusFired   Status = "Fired"
)

// retention is how long reminders of past events are kept around
const retention = 12 * time.Hour

// Reminder is a pre-computed notification for one event
type Reminder struct {
	ID            string    // UUID, stable across syncs
	EventID       string    // Event the reminder belongs to
	Title         string    // Event title at the last sync
	EventStart    time.Time // Event start at the last sync
	FireAt        time.Time // When the reminder should fire
	MinutesBefore int
	Status        Status
}

// Scheduler keeps reminders indexed by the minute they fire in
type Scheduler struct {
	mu sync.RWMutex

	// Unix timestamp of the minute to the reminders firing in it
	byMinute map[int64][]*Reminder

	// "eventID/minutes" to reminder
	byKey map[string]*Reminder
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		byMinute: make(map[int64][]*Reminder),
		byKey:    make(map[string]*Reminder),
	}
}

func reminderKey(eventID string, minutes int) string {
	return fmt.Sprintf("%s/%d", eventID, minutes)
}

func minuteKey(t time.Time) int64 {
	return t.Truncate(time.Minute).Unix()
}

// Sync reconciles reminders with the current events. Reminders that already
// fired keep their status unless the event moved. Reminders whose minute has
// passed are never created.
func (s *Scheduler) Sync(events []models.CalendarEvent, minutesBefore []int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-retention)
	current := now.Truncate(time.Minute)
	wanted := make(map[string]bool)
	created := 0

	for _, event := range events {
		if event.ID == "" || event.Start.Before(cutoff) {
			continue
		}

		for _, minutes := range minutesBefore {
			key := reminderKey(event.ID, minutes)
			fireAt := event.Start.Add(-time.Duration(minutes) * time.Minute)

			existing, exists := s.byKey[key]
			if !exists {
				if fireAt.Before(current) {
					continue
				}
				r := &Reminder{
					ID:            uuid.New().String(),
					EventID:       event.ID,
					Title:         event.Title,
					EventStart:    event.Start,
					FireAt:        fireAt,
					MinutesBefore: minutes,
					Status:        StatusPending,
				}
				s.byKey[key] = r
				s.index(r)
				wanted[key] = true
				created++
				continue
			}

			wanted[key] = true
			existing.Title = event.Title
			if !existing.FireAt.Equal(fireAt) {
				s.unindex(existing)
				existing.FireAt = fireAt
				existing.EventStart = event.Start
				existing.Status = StatusPending
				s.index(existing)
			}
		}
	}

	removed := 0
	for key, r := range s.byKey {
		if !wanted[key] {
			s.unindex(r)
			delete(s.byKey, key)
			removed++
		}
	}

	if created > 0 || removed > 0 {
		log.Printf("[REMINDER] Sync: %d created, %d removed, %d scheduled", created, removed, len(s.byKey))
	}
}

func (s *Scheduler) index(r *Reminder) {
	k := minuteKey(r.FireAt)
	s.byMinute[k] = append(s.byMinute[k], r)
}

func (s *Scheduler) unindex(r *Reminder) {
	k := minuteKey(r.FireAt)
	reminders := s.byMinute[k]
	for i, candidate := range reminders {
		if candidate == r {
			s.byMinute[k] = append(reminders[:i], reminders[i+1:]...)
			break
		}
	}
	if len(s.byMinute[k]) == 0 {
		delete(s.byMinute, k)
	}
}

// Due returns the pending reminders firing in now's minute and marks them
// fired, so each is returned at most once.
func (s *Scheduler) Due(now time.Time) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []Reminder{}
	for _, r := range s.byMinute[minuteKey(now)] {
		if r.Status != StatusPending {
			continue
		}
		r.Status = StatusFired
		result = append(result, *r)
	}
	return result
}

// Upcoming returns pending reminders firing at or after now, soonest first
func (s *Scheduler) Upcoming(now time.Time) []Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := now.Truncate(time.Minute)
	result := make([]Reminder, 0, len(s.byKey))
	for _, r := range s.byKey {
		if r.Status == StatusPending && !r.FireAt.Before(current) {
			result = append(result, *r)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].FireAt.Equal(result[j].FireAt) {
			return result[i].FireAt.Before(result[j].FireAt)
		}
		return result[i].EventID < result[j].EventID
	})
	return result
}

// Message is the notification text for a reminder
func (r Reminder) Message() string {
	if r.MinutesBefore == 0 {
		return fmt.Sprintf("%s is starting now", r.Title)
	}
	return fmt.Sprintf("%s starts at %s (in %d min)", r.Title, r.EventStart.Local().Format("15:04"), r.MinutesBefore)
}
