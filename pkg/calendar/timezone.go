package calendar

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

// Outlook and Exchange feeds use Windows zone names in TZID
var windowsToIANA = map[string]string{
	"Pacific Standard Time":                 "America/Los_Angeles",
	"Mountain Standard Time":               "America/Denver",
	"Central Standard Time":                 "America/Chicago",
	"Eastern Standard Time":                 "America/New_York",
	"Atlantic Standard Time":               "America/Halifax",
	"Alaskan Standard Time":                 "America/Anchorage",
	"Hawaiian Standard Time":               "Pacific/Honolulu",
	"GMT Standard Time":                         "Europe/London",
	"W. Europe Standard Time":             "Europe/Berlin",
	"Romance Standard Time":                 "Europe/Paris",
	"Central Europe Standard Time":   "Europe/Budapest",
	"E. South America Standard Time": "America/Sao_Paulo",
	"China Standard Time":                     "Asia/Shanghai",
	"Tokyo Standard Time":                     "Asia/Tokyo",
	"India Standard Time":                     "Asia/Kolkata",
	"AUS Eastern Standard Time":         "Australia/Sydney",
}

// Date-time properties whose TZID may need rewriting
var zonedProps = []string{
	ical.PropDateTimeStart,
	ical.PropDateTimeEnd,
	ical.PropExceptionDates,
	ical.PropRecurrenceDates,
	ical.PropRecurrenceID,
}

// normalizeComponentTimezones rewrites Windows TZIDs to IANA names in place so
// go-ical can resolve them
func normalizeComponentTimezones(comp *ical.Component) {
	for _, name := range zonedProps {
		props := comp.Props[name]
		for i := range props {
			tzid := props[i].Params.Get(ical.ParamTimezoneID)
			if ianaName, ok := windowsToIANA[tzid]; ok {
				props[i].Params.Set(ical.ParamTimezoneID, ianaName)
			}
		}
	}
}

// componentLocation picks the zone a component's floating times are read in.
// Falls back to fallback when DTSTART has no usable TZID.
func componentLocation(comp *ical.Component, fallback *time.Location) *time.Location {
	dtstart := comp.Props.Get(ical.PropDateTimeStart)
	if dtstart == nil {
		return fallback
	}

	if tzid := dtstart.Params.Get(ical.ParamTimezoneID); tzid != "" {
		if ianaName, ok := windowsToIANA[tzid]; ok {
			tzid = ianaName
		}
		if loc, err := time.LoadLocation(tzid); err == nil {
			return loc
		}
	}

	if strings.HasSuffix(dtstart.Value, "Z") {
		return time.UTC
	}
	return fallback
}
