package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/emersion/go-ical"
)

// ErrFeedTooLarge is returned for responses over MaxFeedSize
var ErrFeedTooLarge = errors.New("subscription feed too large")

// MaxFeedSize bounds how much of a subscription response is read
const MaxFeedSize = 10 << 20

// Fetcher downloads iCal subscriptions
type Fetcher struct {
	Client *http.Client
	// Location is used for floating times without a TZID
	Location *time.Location
}

// NewFetcher creates a fetcher with a bounded HTTP timeout
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Location: time.Local,
	}
}

// FetchEvents fetches a subscription and returns its events overlapping [from, to).
// Every returned event carries the source's ID so it is treated as read-only.
func (f *Fetcher) FetchEvents(ctx context.Context, source models.ICalSource, from, to time.Time) ([]models.CalendarEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription URL: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxFeedSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFeedTooLarge, MaxFeedSize)
	}

	events, err := f.parseFeed(string(body), from, to)
	if err != nil {
		return nil, err
	}

	fallbackIDs := 0
	for i := range events {
		events[i].SourceID = source.ID
		// Fallback: if no iCal UID, use deterministic ID based on start time and title
		if events[i].ID == "" {
			events[i].ID = source.ID + "-" + events[i].Start.Format(time.RFC3339) + "-" + events[i].Title
			fallbackIDs++
		}
	}
	if fallbackIDs > 0 {
		log.Printf("Generated fallback IDs for %d events without UID", fallbackIDs)
	}

	return events, nil
}

func (f *Fetcher) parseFeed(bodyStr string, from, to time.Time) ([]models.CalendarEvent, error) {
	if err := validateICalFormat(bodyStr); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(strings.NewReader(bodyStr))
	events := []models.CalendarEvent{}
	seen := newSeenSet()
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		overridden := collectOverrides(cal.Children, f.Location)

		for _, comp := range cal.Children {
			stats.totalComponents++
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			loc := componentLocation(comp, f.Location)

			event, err := parseEvent(comp, loc)
			if err != nil {
				stats.filteredInvalid++
				log.Printf("  [FILTERED] Invalid - %v", err)
				continue
			}
			if eventStatus(comp) == "CANCELLED" {
				stats.filteredCancelled++
				continue
			}

			candidates := []models.CalendarEvent{event}
			if rid, ok := recurrenceID(comp, loc); ok {
				candidates[0].ID = occurrenceID(event.ID, rid)
			} else if comp.Props.Get(ical.PropRecurrenceRule) != nil {
				candidates = expandRecurringEvent(comp, event, loc, from, to, overridden)
			}

			for _, candidate := range candidates {
				if shouldIncludeEvent(candidate, from, to, stats) && !seen.isDuplicate(candidate, stats) {
					events = append(events, candidate)
				}
			}
		}
	}

	stats.logSummary(len(events))
	return events, nil
}

func validateICalFormat(bodyStr string) error {
	// Check if response is HTML instead of iCalendar
	upperBody := strings.ToUpper(strings.TrimSpace(bodyStr))
	if strings.HasPrefix(upperBody, "<!DOCTYPE") || strings.HasPrefix(upperBody, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	if !strings.HasPrefix(strings.TrimSpace(bodyStr), "BEGIN:VCALENDAR") {
		preview := strings.TrimSpace(bodyStr)
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", preview)
	}

	return nil
}
