package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/emersion/go-ical"
)

// Properties for event fields iCalendar has no place for
const (
	propColor     = "X-AGENDA-COLOR"
	propOwnerID   = "X-AGENDA-OWNER-ID"
	propOwnerName = "X-AGENDA-OWNER-NAME"

	productID = "-//borgmon//agenda//EN"
)

// EncodeEvents writes events as a single VCALENDAR. Nothing is written for an
// empty list.
func EncodeEvents(w io.Writer, events []models.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := time.Now().UTC()
	for _, event := range events {
		if event.ID == "" {
			return fmt.Errorf("cannot encode event \"%s\": missing ID", event.Title)
		}
		cal.Children = append(cal.Children, toComponent(event, stamp))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func toComponent(event models.CalendarEvent, stamp time.Time) *ical.Component {
	ve := ical.NewEvent()
	ve.Props.SetText(ical.PropUID, event.ID)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.End.UTC())
	ve.Props.SetText(ical.PropSummary, event.Title)

	if event.Notes != "" {
		ve.Props.SetText(ical.PropDescription, event.Notes)
	}
	if event.BgColor != "" {
		ve.Props.SetText(propColor, event.BgColor)
	}
	if event.User.ID != "" {
		ve.Props.SetText(propOwnerID, event.User.ID)
	}
	if event.User.Name != "" {
		ve.Props.SetText(propOwnerName, event.User.Name)
	}

	return ve.Component
}

// DecodeEvents reads every VEVENT from r. Recurrence rules are ignored; local
// events never carry one.
func DecodeEvents(r io.Reader) ([]models.CalendarEvent, error) {
	decoder := ical.NewDecoder(r)
	events := []models.CalendarEvent{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			event, err := parseEvent(comp, time.Local)
			if err != nil {
				return nil, err
			}
			event.BgColor = textProp(comp, propColor)
			event.User = models.User{
				ID:   textProp(comp, propOwnerID),
				Name: textProp(comp, propOwnerName),
			}
			events = append(events, event)
		}
	}

	return events, nil
}
