package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/agenda/pkg/models"
	"github.com/borgmon/agenda/pkg/store"
)

// A Wednesday
var anchorTime = time.Date(2026, 3, 11, 10, 0, 0, 0, time.Local)

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.Local)
}

func newTestView(t *testing.T) (*CalendarView, *store.ViewPreference) {
	t.Helper()
	prefs := store.NewViewPreference(test.NewTempApp(t).Preferences())
	return NewCalendarView(prefs, anchorTime), prefs
}

func TestCalendarView_StartsInStoredView(t *testing.T) {
	cv, _ := newTestView(t)
	assert.Equal(t, models.ViewDay, cv.View())
	assert.Equal(t, at(11, 0), cv.Anchor())

	prefs := test.NewTempApp(t).Preferences()
	prefs.SetString(store.LastViewKey, "month")
	cv = NewCalendarView(store.NewViewPreference(prefs), anchorTime)
	assert.Equal(t, models.ViewMonth, cv.View())
	assert.Equal(t, "month", cv.viewSelect.Selected)
}

func TestCalendarView_ViewChangePersists(t *testing.T) {
	cv, prefs := newTestView(t)

	cv.OnViewChange(models.ViewWeek)

	assert.Equal(t, models.ViewWeek, cv.View())
	assert.Equal(t, "week", cv.viewSelect.Selected)
	assert.Equal(t, models.ViewWeek, prefs.LastView())
	assert.Equal(t, models.ViewWeek, NewCalendarView(prefs, anchorTime).View())
}

func TestCalendarView_SelectorChangesView(t *testing.T) {
	cv, prefs := newTestView(t)

	cv.viewSelect.SetSelected("agenda")

	assert.Equal(t, models.ViewAgenda, cv.View())
	assert.Equal(t, models.ViewAgenda, prefs.LastView())
}

func TestCalendarView_VisibleEventsFollowView(t *testing.T) {
	cv, _ := newTestView(t)
	events := []models.CalendarEvent{
		{ID: "today", Title: "Today", Start: at(11, 9), End: at(11, 10)},
		{ID: "friday", Title: "Friday", Start: at(13, 9), End: at(13, 10)},
		{ID: "later", Title: "Later", Start: at(25, 9), End: at(25, 10)},
		{ID: "overnight", Title: "Overnight", Start: at(10, 22), End: at(11, 2)},
	}
	cv.Render(events)

	ids := func() []string {
		result := []string{}
		for _, e := range cv.VisibleEvents() {
			result = append(result, e.ID)
		}
		return result
	}

	assert.Equal(t, []string{"today", "overnight"}, ids())

	cv.OnViewChange(models.ViewWeek)
	assert.Equal(t, []string{"today", "friday", "overnight"}, ids())

	cv.OnViewChange(models.ViewMonth)
	assert.Equal(t, []string{"today", "friday", "later", "overnight"}, ids())

	cv.OnViewChange(models.ViewAgenda)
	assert.Equal(t, []string{"today", "friday", "later", "overnight"}, ids())
}

func TestCalendarView_Navigation(t *testing.T) {
	cv, _ := newTestView(t)

	cv.Next()
	assert.Equal(t, at(12, 0), cv.Anchor())
	cv.Previous()
	cv.Previous()
	assert.Equal(t, at(10, 0), cv.Anchor())

	cv.OnViewChange(models.ViewMonth)
	cv.Next()
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local), cv.Anchor())
}

func TestCalendarView_Hooks(t *testing.T) {
	cv, _ := newTestView(t)
	event := models.CalendarEvent{ID: "e1", Title: "Dinner", Start: at(11, 19), End: at(11, 21)}
	cv.Render([]models.CalendarEvent{event})

	var selected, doubled []models.CalendarEvent
	cv.SelectEvent(event)
	cv.OnSelect = func(e models.CalendarEvent) { selected = append(selected, e) }
	cv.OnDoubleClick = func(e models.CalendarEvent) { doubled = append(doubled, e) }

	cv.SelectEvent(event)
	cv.DoubleClickEvent(event)

	require.Len(t, selected, 1)
	require.Len(t, doubled, 1)
	assert.Equal(t, event, selected[0])
	assert.Equal(t, event, doubled[0])
	assert.Equal(t, "e1", cv.selected)
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		view     models.ViewMode
		from, to time.Time
	}{
		{models.ViewDay, at(11, 0), at(12, 0)},
		{models.ViewWeek, at(9, 0), at(16, 0)},
		{models.ViewMonth, time.Date(2026, 2, 23, 0, 0, 0, 0, time.Local), time.Date(2026, 4, 6, 0, 0, 0, 0, time.Local)},
		{models.ViewAgenda, at(11, 0), time.Date(2026, 4, 10, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			from, to := visibleRange(tt.view, anchorTime)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestPeriodTitle_Month(t *testing.T) {
	from, to := visibleRange(models.ViewMonth, anchorTime)
	assert.Equal(t, "March 2026", periodTitle(models.ViewMonth, from, to))

	// June 2026 starts on a Monday
	june := time.Date(2026, 6, 15, 0, 0, 0, 0, time.Local)
	from, to = visibleRange(models.ViewMonth, june)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local), from)
	assert.Equal(t, "June 2026", periodTitle(models.ViewMonth, from, to))
}
