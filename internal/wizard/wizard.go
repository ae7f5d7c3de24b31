// Package wizard generates batches of plays for quick entry.
//
// Generated plays carry the mode the generator intended. When they are
// added to a session the mode is derived again from the selected tracks.
package wizard

import (
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/models"
)

// Quick pick count bounds
const (
	MinQuickPick = 1
	MaxQuickPick = 50
)

// QuickPickModes lists the modes the quick pick generator supports
var QuickPickModes = []models.GameMode{
	models.GameModePick3,
	models.GameModeWin4,
	models.GameModePulito,
	models.GameModePaleRD,
}

var roundDownPattern = regexp.MustCompile(`^(\d{2})0-(\d{2})9$`)

// Entry validates a single bet number against the selected tracks
func Entry(betNumber string, selectedTracks []string, amounts models.Amounts) (models.WizardPlay, error) {
	if err := amounts.Validate(); err != nil {
		return models.WizardPlay{}, err
	}
	mode := calculator.Classify(betNumber, selectedTracks)
	if !mode.IsSet() {
		return models.WizardPlay{}, models.NewUserError(models.ErrInvalidBetNumber,
			"Invalid bet number format or length for selected tracks.")
	}
	return newPlay(betNumber, mode, amounts), nil
}

// ClampCount limits a quick pick count to MinQuickPick..MaxQuickPick
func ClampCount(count int) int {
	return min(MaxQuickPick, max(MinQuickPick, count))
}

// QuickPick draws count random bet numbers for mode. Numbers are zero padded.
func QuickPick(rng *rand.Rand, mode models.GameMode, count int, amounts models.Amounts) ([]models.WizardPlay, error) {
	if err := amounts.Validate(); err != nil {
		return nil, err
	}
	var draw func() string
	switch mode {
	case models.GameModePick3:
		draw = func() string { return fmt.Sprintf("%03d", rng.IntN(1000)) }
	case models.GameModeWin4:
		draw = func() string { return fmt.Sprintf("%04d", rng.IntN(10000)) }
	case models.GameModePulito:
		draw = func() string { return fmt.Sprintf("%02d", rng.IntN(100)) }
	case models.GameModePaleRD:
		draw = func() string { return fmt.Sprintf("%02d-%02d", rng.IntN(100), rng.IntN(100)) }
	default:
		return nil, models.NewUserError(models.ErrUnsupportedMode,
			fmt.Sprintf("Quick pick does not support %s.", mode))
	}

	count = ClampCount(count)
	plays := make([]models.WizardPlay, count)
	for i := range plays {
		plays[i] = newPlay(draw(), mode, amounts)
	}
	return plays, nil
}

// RoundDown expands a range like "120-129" into the ten Pick 3 plays
// 120 through 129. Only the straight amount is carried over.
func RoundDown(input string, straight *decimal.Decimal) ([]models.WizardPlay, error) {
	if err := (models.Amounts{Straight: straight}).Validate(); err != nil {
		return nil, err
	}
	m := roundDownPattern.FindStringSubmatch(input)
	if m == nil || m[1] != m[2] {
		return nil, models.NewUserError(models.ErrRoundDownPattern,
			"For Round Down, please enter a range like '120-129' in the Bet Number field.")
	}

	plays := make([]models.WizardPlay, 10)
	for i := range plays {
		plays[i] = models.WizardPlay{
			BetNumber: fmt.Sprintf("%s%d", m[1], i),
			GameMode:  models.GameModePick3,
			Straight:  models.CloneAmount(straight),
		}
	}
	return plays, nil
}

// PreviewRow is a staged play with its row total
type PreviewRow struct {
	models.WizardPlay
	Total decimal.Decimal `json:"total"`
}

// Preview prices staged plays
type Preview struct {
	Rows  []PreviewRow    `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// BuildPreview prices staged plays with the mode each generator assigned.
// Bet numbers are cut to MaxBetNumberLength first, as they are on commit.
func BuildPreview(plays []models.WizardPlay) Preview {
	p := Preview{Rows: make([]PreviewRow, len(plays)), Total: decimal.Zero}
	for i, wp := range plays {
		wp.BetNumber = models.TruncateBetNumber(wp.BetNumber)
		total := calculator.RowTotal(wp.BetNumber, wp.GameMode, wp.Straight, wp.Box, wp.Combo)
		p.Rows[i] = PreviewRow{WizardPlay: wp, Total: total}
		p.Total = p.Total.Add(total)
	}
	return p
}

func newPlay(betNumber string, mode models.GameMode, amounts models.Amounts) models.WizardPlay {
	return models.WizardPlay{
		BetNumber: betNumber,
		GameMode:  mode,
		Straight:  models.CloneAmount(amounts.Straight),
		Box:       models.CloneAmount(amounts.Box),
		Combo:     models.CloneAmount(amounts.Combo),
	}
}
