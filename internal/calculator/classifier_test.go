package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/beast-reader/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		betNumber string
		tracks    []string
		want      models.GameMode
	}{
		{"empty", "", []string{"New York Evening"}, models.GameModeUnset},
		{"empty no tracks", "", nil, models.GameModeUnset},
		{"two digits usa", "12", []string{"New York Evening"}, models.GameModePulito},
		{"two digits no tracks", "12", nil, models.GameModePulito},
		{"two digits sd", "12", []string{"Real"}, models.GameModeRDQuiniela},
		{"three digits", "123", nil, models.GameModePick3},
		{"three digits sd", "123", []string{"Loteka"}, models.GameModePick3},
		{"four digits", "1234", nil, models.GameModeWin4},
		{"pale sd", "12-34", []string{"Real"}, models.GameModePaleRD},
		{"pale usa", "12-34", []string{"New York Evening"}, models.GameModePale},
		{"pale no tracks", "12-34", nil, models.GameModePale},
		{"one digit", "1", nil, models.GameModeUnset},
		{"five digits", "12345", nil, models.GameModeUnset},
		{"dash only", "-", nil, models.GameModeUnset},
		{"malformed dash counts digits", "1-23", nil, models.GameModePick3},
		{"malformed dash four digits", "123-4", nil, models.GameModeWin4},
		{"noise stripped", "1a2b3", nil, models.GameModePick3},
		{"spaces stripped", " 12 ", []string{"Gana mas"}, models.GameModeRDQuiniela},
		{"mixed selection sd wins", "12", []string{"New York Evening", "Nacional"}, models.GameModeRDQuiniela},
		{"mixed selection pale", "12-34", []string{"Florida Evening", "Primera Noche"}, models.GameModePaleRD},
		{"venezuela only is neither", "12", []string{"Venezuela"}, models.GameModePulito},
		{"substring of catalog name", "45", []string{"Lotería Real"}, models.GameModeRDQuiniela},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.betNumber, tt.tracks))
		})
	}
}

// TestClassifyIdempotent tests that reclassifying unchanged input is stable
func TestClassifyIdempotent(t *testing.T) {
	tracks := []string{"Georgia Evening", "Suerte Tarde"}
	for _, bet := range []string{"", "1", "12", "123", "1234", "12-34", "9x9"} {
		first := Classify(bet, tracks)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Classify(bet, tracks))
		}
	}
}

func TestDetectDialect(t *testing.T) {
	assert.Equal(t, Dialect{}, DetectDialect(nil))
	assert.Equal(t, Dialect{}, DetectDialect([]string{"Venezuela"}))
	assert.Equal(t, Dialect{USA: true}, DetectDialect([]string{"Brooklyn Midday"}))
	assert.Equal(t, Dialect{SantoDomingo: true}, DetectDialect([]string{"Panama"}))
	assert.Equal(t, Dialect{USA: true, SantoDomingo: true}, DetectDialect([]string{"Front Evening", "Quiniela Pale"}))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "1234", DigitsOnly("12-34"))
	assert.Equal(t, "", DigitsOnly("ab-"))
	assert.Equal(t, "007", DigitsOnly(" 0 0 7 "))
}
