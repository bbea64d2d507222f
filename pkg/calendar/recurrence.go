package calendar

import (
	"log"
	"time"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

// maxInstancesPerEvent caps expansion of open-ended rules
const maxInstancesPerEvent = 1000

// expandRecurringEvent expands a recurring VEVENT into the instances that
// overlap [from, to). Each instance keeps the base duration and gets an ID
// from occurrenceID. Instances listed in overridden are left out; their
// RECURRENCE-ID components are parsed on their own.
func expandRecurringEvent(comp *ical.Component, base models.CalendarEvent, loc *time.Location, from, to time.Time, overridden map[string]bool) []models.CalendarEvent {
	ve := ical.Event{Component: comp}
	set, err := ve.RecurrenceSet(loc)
	if err != nil {
		log.Printf("  [RECURRING] Invalid recurrence for \"%s\": %v", base.Title, err)
		return nil
	}
	if set == nil {
		return []models.CalendarEvent{base}
	}

	return instancesBetween(set, base, from, to, overridden)
}

// occurrenceID names one occurrence of a recurring event
func occurrenceID(uid string, start time.Time) string {
	return uid + "-" + start.UTC().Format(time.RFC3339)
}

// recurrenceID returns the original start of an overriding VEVENT
func recurrenceID(comp *ical.Component, loc *time.Location) (time.Time, bool) {
	prop := comp.Props.Get(ical.PropRecurrenceID)
	if prop == nil {
		return time.Time{}, false
	}
	t, err := prop.DateTime(loc)
	if err != nil {
		log.Printf("  [RECURRING] Invalid RECURRENCE-ID %q: %v", prop.Value, err)
		return time.Time{}, false
	}
	return t, true
}

// collectOverrides normalizes every VEVENT's zones and returns the
// occurrences replaced by RECURRENCE-ID components, cancelled ones included
func collectOverrides(comps []*ical.Component, fallback *time.Location) map[string]bool {
	overridden := make(map[string]bool)
	for _, comp := range comps {
		if comp.Name != ical.CompEvent {
			continue
		}
		normalizeComponentTimezones(comp)
		if rid, ok := recurrenceID(comp, componentLocation(comp, fallback)); ok {
			overridden[occurrenceID(textProp(comp, ical.PropUID), rid)] = true
		}
	}
	return overridden
}

func instancesBetween(set *rrule.Set, base models.CalendarEvent, from, to time.Time, overridden map[string]bool) []models.CalendarEvent {
	duration := base.Duration()
	events := []models.CalendarEvent{}

	// Instances starting before the window can still overlap it
	for _, start := range set.Between(from.Add(-duration), to, true) {
		instance := base
		instance.Start = start
		instance.End = start.Add(duration)
		if !instance.Overlaps(from, to) {
			continue
		}
		instance.ID = occurrenceID(base.ID, start)
		if overridden[instance.ID] {
			continue
		}
		events = append(events, instance)

		if len(events) >= maxInstancesPerEvent {
			log.Printf("  [RECURRING] Truncated \"%s\" at %d instances", base.Title, maxInstancesPerEvent)
			break
		}
	}

	log.Printf("  [RECURRING] Expanded \"%s\" into %d instances", base.Title, len(events))
	return events
}
