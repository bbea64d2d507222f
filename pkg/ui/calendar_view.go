package ui

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/agenda/pkg/models"
	"github.com/borgmon/agenda/pkg/store"
	"github.com/borgmon/agenda/pkg/ui/components"
)

const (
	agendaDays      = 30
	monthCells      = 42
	maxChipsPerCell = 3
	hourLabelWidth  = 56
)

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// CalendarView renders events in a day, week, month or agenda layout and
// reports selections through its hooks
type CalendarView struct {
	prefs    *store.ViewPreference
	view     models.ViewMode
	anchor   time.Time
	events   []models.CalendarEvent
	selected string

	// Called after an event is tapped or double tapped (optional)
	OnSelect      func(models.CalendarEvent)
	OnDoubleClick func(models.CalendarEvent)

	title      *widget.Label
	viewSelect *widget.Select
	body       *fyne.Container
	root       fyne.CanvasObject
}

// NewCalendarView creates a view showing the day of now in the last used view
func NewCalendarView(prefs *store.ViewPreference, now time.Time) *CalendarView {
	cv := &CalendarView{
		prefs:  prefs,
		view:   prefs.LastView(),
		anchor: startOfDay(now),
	}
	cv.buildUI()
	return cv
}

func (cv *CalendarView) buildUI() {
	cv.title = widget.NewLabel("")
	cv.title.TextStyle.Bold = true

	options := make([]string, len(models.AllViews))
	for i, view := range models.AllViews {
		options[i] = string(view)
	}
	cv.viewSelect = widget.NewSelect(options, nil)
	cv.viewSelect.SetSelected(string(cv.view))
	cv.viewSelect.OnChanged = func(value string) {
		cv.OnViewChange(models.ParseViewMode(value))
	}

	prevButton := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), cv.Previous)
	nextButton := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), cv.Next)
	todayButton := widget.NewButton("Today", func() {
		cv.anchor = startOfDay(time.Now())
		cv.refresh()
	})

	toolbar := container.NewBorder(nil, nil,
		container.NewHBox(prevButton, todayButton, nextButton),
		cv.viewSelect,
		cv.title,
	)

	cv.body = container.NewStack()
	cv.root = container.NewBorder(container.NewPadded(toolbar), nil, nil, nil, cv.body)
	cv.refresh()
}

// Widget returns the canvas object to place in a window
func (cv *CalendarView) Widget() fyne.CanvasObject {
	return cv.root
}

// View returns the current view mode
func (cv *CalendarView) View() models.ViewMode {
	return cv.view
}

// Anchor returns the first day of the displayed period
func (cv *CalendarView) Anchor() time.Time {
	return cv.anchor
}

// Render replaces the displayed events
func (cv *CalendarView) Render(events []models.CalendarEvent) {
	cv.events = events
	cv.refresh()
}

// OnViewChange switches the view and remembers it for the next launch
func (cv *CalendarView) OnViewChange(view models.ViewMode) {
	if view == cv.view {
		return
	}
	cv.view = view
	cv.prefs.SetLastView(view)
	if cv.viewSelect.Selected != string(view) {
		cv.viewSelect.SetSelected(string(view))
	}
	cv.refresh()
}

// SelectEvent highlights an event and calls OnSelect
func (cv *CalendarView) SelectEvent(event models.CalendarEvent) {
	log.Printf("[VIEW] Selected event \"%s\" (%s)", event.Title, event.ID)
	cv.selected = event.ID
	if cv.OnSelect != nil {
		cv.OnSelect(event)
	}
	cv.refresh()
}

// DoubleClickEvent highlights an event and calls OnDoubleClick
func (cv *CalendarView) DoubleClickEvent(event models.CalendarEvent) {
	log.Printf("[VIEW] Double clicked event \"%s\" (%s)", event.Title, event.ID)
	cv.selected = event.ID
	if cv.OnDoubleClick != nil {
		cv.OnDoubleClick(event)
	}
	cv.refresh()
}

// Next moves forward by one period of the current view
func (cv *CalendarView) Next() {
	cv.anchor = stepAnchor(cv.view, cv.anchor, 1)
	cv.refresh()
}

// Previous moves back by one period of the current view
func (cv *CalendarView) Previous() {
	cv.anchor = stepAnchor(cv.view, cv.anchor, -1)
	cv.refresh()
}

// VisibleEvents returns the events overlapping the displayed period
func (cv *CalendarView) VisibleEvents() []models.CalendarEvent {
	from, to := visibleRange(cv.view, cv.anchor)
	return eventsBetween(cv.events, from, to)
}

func (cv *CalendarView) refresh() {
	from, to := visibleRange(cv.view, cv.anchor)
	cv.title.SetText(periodTitle(cv.view, from, to))

	var content fyne.CanvasObject
	switch cv.view {
	case models.ViewWeek:
		content = cv.weekBody(from)
	case models.ViewMonth:
		content = cv.monthBody(from)
	case models.ViewAgenda:
		content = cv.agendaBody(from, to)
	default:
		content = cv.dayBody(from)
	}

	cv.body.Objects = []fyne.CanvasObject{content}
	cv.body.Refresh()
}

func (cv *CalendarView) chip(event models.CalendarEvent, label string) *components.EventChip {
	style := EventStyle(event, event.ID != "" && event.ID == cv.selected)
	chip := components.NewEventChip(label,
		func() { cv.SelectEvent(event) },
		func() { cv.DoubleClickEvent(event) },
	)
	chip.Background = style.Background
	chip.TextColor = style.Text
	chip.Border = style.Border
	chip.CornerRadius = style.CornerRadius
	return chip
}

func (cv *CalendarView) dayBody(day time.Time) fyne.CanvasObject {
	rows := container.NewVBox()
	dayEnd := day.AddDate(0, 0, 1)
	events := eventsBetween(cv.events, day, dayEnd)

	for hour := 0; hour < 24; hour++ {
		slotStart := day.Add(time.Duration(hour) * time.Hour)
		slotEnd := slotStart.Add(time.Hour)

		chips := container.NewVBox()
		for _, event := range events {
			starts := !event.Start.Before(slotStart) && event.Start.Before(slotEnd)
			// Events carried over from the previous day go in the first slot
			if starts || (hour == 0 && event.Start.Before(day)) {
				chips.Add(cv.chip(event, timedLabel(event)))
			}
		}

		hourLabel := widget.NewLabel(slotStart.Format("15:04"))
		hourLabel.Importance = widget.LowImportance
		gutter := container.NewGridWrap(fyne.NewSize(hourLabelWidth, hourLabel.MinSize().Height), hourLabel)

		rows.Add(container.NewBorder(nil, widget.NewSeparator(), gutter, nil, chips))
	}

	return container.NewVScroll(rows)
}

func (cv *CalendarView) weekBody(weekStart time.Time) fyne.CanvasObject {
	columns := container.NewGridWithColumns(7)

	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		header := widget.NewLabel(fmt.Sprintf("%s %d", weekdayNames[i], day.Day()))
		header.TextStyle.Bold = sameDay(day, time.Now())

		column := container.NewVBox(header, widget.NewSeparator())
		for _, event := range eventsBetween(cv.events, day, day.AddDate(0, 0, 1)) {
			column.Add(cv.chip(event, timedLabel(event)))
		}
		columns.Add(column)
	}

	return container.NewVScroll(columns)
}

func (cv *CalendarView) monthBody(gridStart time.Time) fyne.CanvasObject {
	grid := container.NewGridWithColumns(7)
	for _, name := range weekdayNames {
		header := widget.NewLabel(name)
		header.TextStyle.Bold = true
		grid.Add(header)
	}

	month := cv.anchor.Month()
	for i := 0; i < monthCells; i++ {
		day := gridStart.AddDate(0, 0, i)
		dayLabel := widget.NewLabel(fmt.Sprintf("%d", day.Day()))
		if day.Month() != month {
			dayLabel.Importance = widget.LowImportance
		}
		dayLabel.TextStyle.Bold = sameDay(day, time.Now())

		cell := container.NewVBox(dayLabel)
		events := eventsBetween(cv.events, day, day.AddDate(0, 0, 1))
		for j, event := range events {
			if j == maxChipsPerCell {
				more := widget.NewLabel(fmt.Sprintf("+%d more", len(events)-maxChipsPerCell))
				more.Importance = widget.LowImportance
				cell.Add(more)
				break
			}
			cell.Add(cv.chip(event, event.Title))
		}
		grid.Add(cell)
	}

	return container.NewVScroll(grid)
}

func (cv *CalendarView) agendaBody(from, to time.Time) fyne.CanvasObject {
	list := container.NewVBox()
	events := eventsBetween(cv.events, from, to)
	if len(events) == 0 {
		list.Add(widget.NewLabel("No events"))
		return container.NewVScroll(list)
	}

	var currentDay time.Time
	for _, event := range events {
		day := startOfDay(event.Start)
		if day.Before(from) {
			day = from
		}
		if !day.Equal(currentDay) {
			currentDay = day
			header := widget.NewLabel(day.Format("Monday, 2 January"))
			header.TextStyle.Bold = true
			list.Add(header)
		}
		label := fmt.Sprintf("%s - %s  %s", event.Start.Format("15:04"), event.End.Format("15:04"), event.Title)
		list.Add(cv.chip(event, label))
	}

	return container.NewVScroll(list)
}

func timedLabel(event models.CalendarEvent) string {
	return fmt.Sprintf("%s %s", event.Start.Format("15:04"), event.Title)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday of t's week
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func monthGridStart(t time.Time) time.Time {
	return startOfWeek(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// visibleRange returns the [from, to) period a view displays around anchor
func visibleRange(view models.ViewMode, anchor time.Time) (time.Time, time.Time) {
	switch view {
	case models.ViewWeek:
		from := startOfWeek(anchor)
		return from, from.AddDate(0, 0, 7)
	case models.ViewMonth:
		from := monthGridStart(anchor)
		return from, from.AddDate(0, 0, monthCells)
	case models.ViewAgenda:
		from := startOfDay(anchor)
		return from, from.AddDate(0, 0, agendaDays)
	default:
		from := startOfDay(anchor)
		return from, from.AddDate(0, 0, 1)
	}
}

func stepAnchor(view models.ViewMode, anchor time.Time, dir int) time.Time {
	switch view {
	case models.ViewWeek:
		return anchor.AddDate(0, 0, 7*dir)
	case models.ViewMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return first.AddDate(0, dir, 0)
	case models.ViewAgenda:
		return anchor.AddDate(0, 0, agendaDays*dir)
	default:
		return anchor.AddDate(0, 0, dir)
	}
}

func periodTitle(view models.ViewMode, from, to time.Time) string {
	switch view {
	case models.ViewWeek:
		last := to.AddDate(0, 0, -1)
		return fmt.Sprintf("%s - %s", from.Format("2 Jan"), last.Format("2 Jan 2006"))
	case models.ViewMonth:
		// The grid starts in the previous month unless the 1st is a Monday
		return from.AddDate(0, 0, 7).Format("January 2006")
	case models.ViewAgenda:
		return "From " + from.Format("2 Jan 2006")
	default:
		return from.Format("Monday, 2 Jan 2006")
	}
}

// eventsBetween returns the events overlapping [from, to), keeping their order
func eventsBetween(events []models.CalendarEvent, from, to time.Time) []models.CalendarEvent {
	result := []models.CalendarEvent{}
	for _, event := range events {
		if event.Overlaps(from, to) {
			result = append(result, event)
		}
	}
	return result
}
