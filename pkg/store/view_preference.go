package store

import "github.com/borgmon/agenda/pkg/models"

// LastViewKey is the preference key the last calendar view is stored under
const LastViewKey = "lastView"

// PreferenceStore is the subset of fyne.Preferences the view preference needs
type PreferenceStore interface {
	StringWithFallback(key, fallback string) string
	SetString(key, value string)
}

// ViewPreference remembers the last calendar view across sessions
type ViewPreference struct {
	prefs PreferenceStore
}

func NewViewPreference(prefs PreferenceStore) *ViewPreference {
	return &ViewPreference{prefs: prefs}
}

// LastView returns the persisted view, or models.DefaultView when none is stored
func (v *ViewPreference) LastView() models.ViewMode {
	return models.ParseViewMode(v.prefs.StringWithFallback(LastViewKey, string(models.DefaultView)))
}

// SetLastView persists view for the next launch
func (v *ViewPreference) SetLastView(view models.ViewMode) {
	v.prefs.SetString(LastViewKey, string(view))
}
