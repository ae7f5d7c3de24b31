// Package tracks holds the lottery track catalog and daily cutoff times.
package tracks

import (
	"fmt"
	"time"
)

// Venezuela is a shadow track: selectable, but excluded from the display
// list and from the grand-total multiplier.
const Venezuela = "Venezuela"

// Category names
const (
	CategoryUSA          = "USA"
	CategorySantoDomingo = "Santo Domingo"
)

// Track is a single selectable lottery draw
type Track struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Cutoff string `json:"cutoff"`
}

// Category groups tracks by region
type Category struct {
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
}

// cutoffTimes are local HH:MM times after which a track no longer accepts plays for today
var cutoffTimes = map[string]string{
	"New York Mid Day":    "14:20",
	"New York Evening":    "22:00",
	"Georgia Mid Day":     "12:20",
	"Georgia Evening":     "18:40",
	"New Jersey Mid Day":  "12:50",
	"New Jersey Evening":  "22:00",
	"Florida Mid Day":     "13:20",
	"Florida Evening":     "21:30",
	"Connecticut Mid Day": "13:30",
	"Connecticut Evening": "22:00",
	"Georgia Night":       "22:00",
	"Pensilvania AM":      "12:45",
	"Pensilvania PM":      "18:15",
	Venezuela:             "23:59",
	"Brooklyn Midday":     "14:20",
	"Brooklyn Evening":    "22:00",
	"Front Midday":        "14:20",
	"Front Evening":       "22:00",
	"New York Horses":     "16:00",
	"Real":                "11:45",
	"Gana mas":            "13:25",
	"Loteka":              "18:30",
	"Nacional":            "19:30",
	"Quiniela Pale":       "19:30",
	"Primera Día":         "10:50",
	"Suerte Día":          "11:20",
	"Lotería Real":        "11:50",
	"Suerte Tarde":        "16:50",
	"Lotedom":             "16:50",
	"Primera Noche":       "18:50",
	"Panama":              "16:00",
}

var categoryTracks = []struct {
	name   string
	tracks []string
}{
	{CategoryUSA, []string{
		"New York Mid Day", "New York Evening", "Georgia Mid Day", "Georgia Evening",
		"New Jersey Mid Day", "New Jersey Evening", "Florida Mid Day", "Florida Evening",
		"Connecticut Mid Day", "Connecticut Evening", "Georgia Night", "Pensilvania AM",
		"Pensilvania PM", Venezuela, "Brooklyn Midday", "Brooklyn Evening",
		"Front Midday", "Front Evening", "New York Horses",
	}},
	{CategorySantoDomingo, []string{
		"Real", "Gana mas", "Loteka", "Nacional", "Quiniela Pale", "Primera Día",
		"Suerte Día", "Lotería Real", "Suerte Tarde", "Lotedom", "Primera Noche", "Panama",
	}},
}

// Categories returns the full catalog in display order
func Categories() []Category {
	out := make([]Category, 0, len(categoryTracks))
	for _, c := range categoryTracks {
		cat := Category{Name: c.name, Tracks: make([]Track, 0, len(c.tracks))}
		for _, name := range c.tracks {
			cat.Tracks = append(cat.Tracks, Track{Name: name, ID: name, Cutoff: cutoffTimes[name]})
		}
		out = append(out, cat)
	}
	return out
}

// Names returns every track name in catalog order
func Names() []string {
	var names []string
	for _, c := range categoryTracks {
		names = append(names, c.tracks...)
	}
	return names
}

// IsKnown checks if a track is in the catalog
func IsKnown(name string) bool {
	_, ok := cutoffTimes[name]
	return ok
}

// Cutoff returns the cutoff time of a track on the given date, in the date's location
func Cutoff(name string, date time.Time) (time.Time, bool) {
	hhmm, ok := cutoffTimes[name]
	if !ok {
		return time.Time{}, false
	}
	var hour, minute int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, false
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location()), true
}

// IsClosed reports whether a track stopped taking plays for betDate.
// Only today's date can be closed; past and future dates are always open.
func IsClosed(name, betDate string, now time.Time) bool {
	if betDate != now.Format(DateLayout) {
		return false
	}
	cutoff, ok := Cutoff(name, now)
	if !ok {
		return false
	}
	return now.After(cutoff)
}

// DisplayTracks returns the selection without Venezuela, preserving order
func DisplayTracks(selected []string) []string {
	out := make([]string, 0, len(selected))
	for _, t := range selected {
		if t != Venezuela {
			out = append(out, t)
		}
	}
	return out
}
