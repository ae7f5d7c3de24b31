package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/models"
)

// RowTotal prices a single play. Absent amounts contribute nothing.
//
//   - Pale-RD, Palé, RD-Quiniela, Pulito: straight + box (no combo variant)
//   - Win 4, Pick 3: straight + box + combo * PermutationCount(digits)
//   - anything else: straight + box + combo
func RowTotal(betNumber string, mode models.GameMode, straight, box, combo *decimal.Decimal) decimal.Decimal {
	if betNumber == "" || mode == models.GameModeUnset {
		return decimal.Zero
	}

	st := valueOrZero(straight)
	bx := valueOrZero(box)
	co := valueOrZero(combo)

	switch mode {
	case models.GameModePaleRD, models.GameModePale, models.GameModeRDQuiniela, models.GameModePulito:
		return st.Add(bx)
	case models.GameModeWin4, models.GameModePick3:
		combos := decimal.NewFromInt(PermutationCount(DigitsOnly(betNumber)))
		return st.Add(bx).Add(co.Mul(combos))
	default:
		return st.Add(bx).Add(co)
	}
}

// PlayTotal prices a play using its own stored mode
func PlayTotal(p models.Play) decimal.Decimal {
	return RowTotal(p.BetNumber, p.GameMode, p.StraightAmount, p.BoxAmount, p.ComboAmount)
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
