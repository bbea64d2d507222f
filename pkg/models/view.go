package models

// ViewMode is the display granularity of the calendar
type ViewMode string

const (
	ViewDay    ViewMode = "day"
	ViewWeek   ViewMode = "week"
	ViewMonth  ViewMode = "month"
	ViewAgenda ViewMode = "agenda"
)

// DefaultView is used when no view has been persisted yet
const DefaultView = ViewDay

// AllViews lists the views in the order they appear in the toolbar
var AllViews = []ViewMode{ViewDay, ViewWeek, ViewMonth, ViewAgenda}

// ParseViewMode returns the view for name, or DefaultView if it is unknown
func ParseViewMode(name string) ViewMode {
	for _, v := range AllViews {
		if string(v) == name {
			return v
		}
	}
	return DefaultView
}
