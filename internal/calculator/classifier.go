// Package calculator classifies bet numbers into game modes and prices ticket rows.
package calculator

import (
	"regexp"
	"strings"

	"github.com/yourusername/beast-reader/internal/models"
)

// Marker substrings identifying each track family. Matching is by substring
// so that catalog names like "Primera Noche" or "Lotería Real" are covered.
var (
	usaMarkers = []string{"New York", "Georgia", "New Jersey", "Florida", "Connecticut", "Pensilvania", "Brooklyn", "Front"}
	sdMarkers  = []string{"Real", "Gana mas", "Loteka", "Nacional", "Quiniela Pale", "Primera", "Suerte", "Lotería", "Lotedom", "Panama"}
)

var (
	nonBetChars = regexp.MustCompile(`[^0-9-]`)
	nonDigits   = regexp.MustCompile(`[^0-9]`)
	palePattern = regexp.MustCompile(`^\d{2}-\d{2}$`)
)

// Dialect records which track families are present in a selection
type Dialect struct {
	USA          bool
	SantoDomingo bool
}

// DetectDialect derives the dialect flags from a track selection
func DetectDialect(selectedTracks []string) Dialect {
	return Dialect{
		USA:          anyContains(selectedTracks, usaMarkers),
		SantoDomingo: anyContains(selectedTracks, sdMarkers),
	}
}

func anyContains(tracks, markers []string) bool {
	for _, t := range tracks {
		for _, m := range markers {
			if strings.Contains(t, m) {
				return true
			}
		}
	}
	return false
}

// Classify maps a bet number and the current track selection to a game mode.
// Input that cannot be classified yields GameModeUnset; it never fails.
// When both families are selected, Santo Domingo naming wins.
func Classify(betNumber string, selectedTracks []string) models.GameMode {
	if betNumber == "" {
		return models.GameModeUnset
	}

	dialect := DetectDialect(selectedTracks)
	clean := nonBetChars.ReplaceAllString(betNumber, "")

	if palePattern.MatchString(clean) {
		if dialect.SantoDomingo {
			return models.GameModePaleRD
		}
		return models.GameModePale
	}

	switch len(strings.ReplaceAll(clean, "-", "")) {
	case 2:
		if dialect.SantoDomingo {
			return models.GameModeRDQuiniela
		}
		return models.GameModePulito
	case 3:
		return models.GameModePick3
	case 4:
		return models.GameModeWin4
	default:
		return models.GameModeUnset
	}
}

// DigitsOnly strips every non-digit character from a bet number
func DigitsOnly(betNumber string) string {
	return nonDigits.ReplaceAllString(betNumber, "")
}
