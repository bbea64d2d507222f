package ui

import (
	"image/color"
	"regexp"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultEventColor is used for events without a usable BgColor
const DefaultEventColor = "#347CF7"

// Style is how a single event is painted in the calendar
type Style struct {
	Background   color.Color
	Text         color.Color
	Border       color.Color // nil unless the event is selected
	CornerRadius float32
}

var (
	defaultBackground, _ = colorful.Hex(DefaultEventColor)

	// colorful.Hex ignores trailing input and accepts short digits
	hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

func parseEventColor(value string) (colorful.Color, bool) {
	if !hexColorPattern.MatchString(value) {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(value)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// EventStyle returns the paint style for an event
func EventStyle(event models.CalendarEvent, selected bool) Style {
	bg, ok := parseEventColor(event.BgColor)
	if !ok {
		bg = defaultBackground
	}

	style := Style{
		Background:   bg,
		Text:         color.White,
		CornerRadius: 0,
	}
	if selected {
		style.Border = bg.BlendLab(colorful.Color{}, 0.45).Clamped()
	}
	return style
}
