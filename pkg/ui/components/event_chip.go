package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// EventChip is a coloured block representing one event in a calendar grid
type EventChip struct {
	widget.BaseWidget
	Text           string
	Background     color.Color
	TextColor      color.Color
	Border         color.Color
	CornerRadius   float32
	OnTapped       func()
	OnDoubleTapped func()
}

// NewEventChip creates a new EventChip
func NewEventChip(text string, onTapped, onDoubleTapped func()) *EventChip {
	c := &EventChip{
		Text:           text,
		Background:     theme.Color(theme.ColorNamePrimary),
		TextColor:      color.White,
		OnTapped:       onTapped,
		OnDoubleTapped: onDoubleTapped,
	}
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *EventChip) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(c.Text, c.TextColor)
	text.TextSize = theme.CaptionTextSize()

	r := &eventChipRenderer{
		chip: c,
		text: text,
		bg:   canvas.NewRectangle(c.Background),
	}
	r.Refresh()
	return r
}

// Tapped implements fyne.Tappable
func (c *EventChip) Tapped(*fyne.PointEvent) {
	if c.OnTapped != nil {
		c.OnTapped()
	}
}

// DoubleTapped implements fyne.DoubleTappable
func (c *EventChip) DoubleTapped(*fyne.PointEvent) {
	if c.OnDoubleTapped != nil {
		c.OnDoubleTapped()
	}
}

type eventChipRenderer struct {
	chip *EventChip
	text *canvas.Text
	bg   *canvas.Rectangle
}

func (r *eventChipRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	pad := theme.Padding()
	r.text.Move(fyne.NewPos(pad, (size.Height-r.text.MinSize().Height)/2))
	r.text.Resize(fyne.NewSize(size.Width-pad*2, r.text.MinSize().Height))
}

func (r *eventChipRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	return fyne.NewSize(textSize.Width+theme.Padding()*2, textSize.Height+theme.Padding())
}

func (r *eventChipRenderer) Refresh() {
	r.text.Text = r.chip.Text
	r.text.Color = r.chip.TextColor

	r.bg.FillColor = r.chip.Background
	r.bg.CornerRadius = r.chip.CornerRadius
	if r.chip.Border != nil {
		r.bg.StrokeColor = r.chip.Border
		r.bg.StrokeWidth = 2
	} else {
		r.bg.StrokeWidth = 0
	}

	r.bg.Refresh()
	r.text.Refresh()
}

func (r *eventChipRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.text}
}

func (r *eventChipRenderer) Destroy() {}
