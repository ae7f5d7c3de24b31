package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/models"
)

// Venezuela is selectable like any track but never multiplies stakes.
const Venezuela = "Venezuela"

// EffectiveTrackCount counts selected tracks other than Venezuela, floored at 1
func EffectiveTrackCount(selectedTracks []string) int {
	n := 0
	for _, t := range selectedTracks {
		if t != Venezuela {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// PlaysTotal sums the row totals of all plays
func PlaysTotal(plays []models.Play) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range plays {
		sum = sum.Add(PlayTotal(p))
	}
	return sum
}

// GrandTotal prices the whole ticket: the same plays are bought once per effective track
func GrandTotal(plays []models.Play, selectedTracks []string) decimal.Decimal {
	return PlaysTotal(plays).Mul(decimal.NewFromInt(int64(EffectiveTrackCount(selectedTracks))))
}
