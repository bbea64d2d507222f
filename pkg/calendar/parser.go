package calendar

import (
	"fmt"
	"time"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/emersion/go-ical"
)

// parseEvent converts a VEVENT into a CalendarEvent with times in loc
func parseEvent(comp *ical.Component, loc *time.Location) (models.CalendarEvent, error) {
	event := models.CalendarEvent{
		ID:    textProp(comp, ical.PropUID),
		Title: textProp(comp, ical.PropSummary),
		Notes: textProp(comp, ical.PropDescription),
	}

	ve := ical.Event{Component: comp}

	start, err := ve.DateTimeStart(loc)
	if err != nil {
		return event, fmt.Errorf("invalid DTSTART for \"%s\": %w", event.Title, err)
	}
	end, err := ve.DateTimeEnd(loc)
	if err != nil {
		return event, fmt.Errorf("invalid DTEND for \"%s\": %w", event.Title, err)
	}

	if !start.IsZero() {
		event.Start = start.In(loc)
	}
	if !end.IsZero() {
		event.End = end.In(loc)
	}

	return event, nil
}

// textProp returns the unescaped value of a text property, or "" if it is absent
func textProp(comp *ical.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	text, err := prop.Text()
	if err != nil {
		return prop.Value
	}
	return text
}

// eventStatus returns the STATUS property (CONFIRMED, CANCELLED, TENTATIVE)
func eventStatus(comp *ical.Component) string {
	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		return statusProp.Value
	}
	return ""
}
