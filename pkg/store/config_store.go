package store

import (
	"encoding/json"
	"log"

	"fyne.io/fyne/v2"
	"github.com/borgmon/agenda/pkg/models"
)

// ConfigStore handles configuration persistence using Fyne preferences
type ConfigStore struct {
	prefs fyne.Preferences
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(prefs fyne.Preferences) *ConfigStore {
	return &ConfigStore{prefs: prefs}
}

// Load loads configuration from preferences
func (cs *ConfigStore) Load() *models.Config {
	config := &models.Config{
		AutoStart: cs.prefs.BoolWithFallback("auto_start", false),
		Owner: models.User{
			ID:   cs.prefs.String("owner_id"),
			Name: cs.prefs.StringWithFallback("owner_name", ""),
		},
		UpdateInterval:   cs.prefs.IntWithFallback("update_interval", 30),
		ReminderMinutes:  cs.prefs.StringWithFallback("reminder_minutes", "10"),
		SubscriptionDays: cs.prefs.IntWithFallback("subscription_days", 31),
	}

	// Load iCal sources from JSON string
	config.ICalSources = []models.ICalSource{}
	if icalSourcesJSON := cs.prefs.String("ical_sources"); icalSourcesJSON != "" {
		if err := json.Unmarshal([]byte(icalSourcesJSON), &config.ICalSources); err != nil {
			log.Printf("Ignoring unreadable ical_sources preference: %v", err)
			config.ICalSources = []models.ICalSource{}
		}
	}

	return config
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	cs.prefs.SetBool("auto_start", config.AutoStart)
	cs.prefs.SetString("owner_id", config.Owner.ID)
	cs.prefs.SetString("owner_name", config.Owner.Name)
	cs.prefs.SetInt("update_interval", config.UpdateInterval)
	cs.prefs.SetString("reminder_minutes", config.ReminderMinutes)
	cs.prefs.SetInt("subscription_days", config.SubscriptionDays)

	// Save iCal sources as JSON string
	if icalSourcesJSON, err := json.Marshal(config.ICalSources); err == nil {
		cs.prefs.SetString("ical_sources", string(icalSourcesJSON))
	}
}
