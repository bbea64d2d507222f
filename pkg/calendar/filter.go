package calendar

import (
	"log"
	"time"

	"github.com/borgmon/agenda/pkg/models"
)

type filterStats struct {
	totalComponents       int
	totalEvents           int
	filteredInvalid       int
	filteredMissingTime   int
	filteredCancelled     int
	filteredOutsideWindow int
	filteredDuplicates    int
}

func (s *filterStats) logSummary(includedCount int) {
	totalFiltered := s.filteredInvalid + s.filteredMissingTime + s.filteredCancelled + s.filteredOutsideWindow + s.filteredDuplicates
	log.Printf("  [SUMMARY] Total components: %d, Events: %d, Included: %d, Filtered: %d",
		s.totalComponents, s.totalEvents, includedCount, totalFiltered)
	if totalFiltered > 0 {
		log.Printf("  Filtered breakdown: %d cancelled, %d outside window, %d missing time, %d invalid, %d duplicates",
			s.filteredCancelled, s.filteredOutsideWindow, s.filteredMissingTime, s.filteredInvalid, s.filteredDuplicates)
	}
}

// shouldIncludeEvent keeps events with both times set that overlap [from, to)
func shouldIncludeEvent(event models.CalendarEvent, from, to time.Time, stats *filterStats) bool {
	if event.Start.IsZero() || event.End.IsZero() {
		stats.filteredMissingTime++
		log.Printf("  [FILTERED] Missing time - Event: \"%s\"", event.Title)
		return false
	}

	if !event.Overlaps(from, to) {
		stats.filteredOutsideWindow++
		return false
	}

	return true
}

// seenSet drops repeats by UID and by title + start time
type seenSet struct {
	ids  map[string]bool
	keys map[string]bool
}

func newSeenSet() *seenSet {
	return &seenSet{
		ids:  make(map[string]bool),
		keys: make(map[string]bool),
	}
}

func (s *seenSet) isDuplicate(event models.CalendarEvent, stats *filterStats) bool {
	if event.ID != "" && s.ids[event.ID] {
		stats.filteredDuplicates++
		log.Printf("  [FILTERED] Duplicate (ID) - Event: \"%s\" (ID: %s)", event.Title, event.ID)
		return true
	}

	key := event.Title + "|" + event.Start.Format(time.RFC3339)
	if s.keys[key] {
		stats.filteredDuplicates++
		log.Printf("  [FILTERED] Duplicate (Title+Time) - Event: \"%s\" (Start: %s)",
			event.Title, event.Start.Format("2006-01-02 15:04"))
		return true
	}

	if event.ID != "" {
		s.ids[event.ID] = true
	}
	s.keys[key] = true
	return false
}
