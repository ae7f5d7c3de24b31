// Package models holds the domain types shared across the ticket entry tool.
package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxBetNumberLength is the number of characters accepted in a bet number field
const MaxBetNumberLength = 5

func init() {
	// Persisted sessions and OCR payloads carry amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Play represents a single ticket row
type Play struct {
	ID             uuid.UUID        `json:"id"`
	BetNumber      string           `json:"betNumber"`
	GameMode       GameMode         `json:"gameMode"`
	StraightAmount *decimal.Decimal `json:"straightAmount"`
	BoxAmount      *decimal.Decimal `json:"boxAmount"`
	ComboAmount    *decimal.Decimal `json:"comboAmount"`
}

// Amounts groups the three optional stakes of a play
type Amounts struct {
	Straight *decimal.Decimal `json:"straight"`
	Box      *decimal.Decimal `json:"box"`
	Combo    *decimal.Decimal `json:"combo"`
}

// Amounts returns a copy of the play's stakes
func (p Play) Amounts() Amounts {
	return Amounts{
		Straight: CloneAmount(p.StraightAmount),
		Box:      CloneAmount(p.BoxAmount),
		Combo:    CloneAmount(p.ComboAmount),
	}
}

// Validate rejects negative stakes. Absent stakes are valid.
func (a Amounts) Validate() error {
	for _, s := range []struct {
		name  string
		value *decimal.Decimal
	}{
		{"Straight", a.Straight},
		{"Box", a.Box},
		{"Combo", a.Combo},
	} {
		if s.value != nil && s.value.IsNegative() {
			return NewUserError(ErrNegativeAmount, fmt.Sprintf("%s amount cannot be negative.", s.name))
		}
	}
	return nil
}

// Clone returns a deep copy of the play
func (p Play) Clone() Play {
	p.StraightAmount = CloneAmount(p.StraightAmount)
	p.BoxAmount = CloneAmount(p.BoxAmount)
	p.ComboAmount = CloneAmount(p.ComboAmount)
	return p
}

// IsValid checks if the play can be printed on a ticket
func (p Play) IsValid() bool {
	return p.BetNumber != "" && p.GameMode.IsSet()
}

// CloneAmount copies an optional amount
func CloneAmount(a *decimal.Decimal) *decimal.Decimal {
	if a == nil {
		return nil
	}
	c := a.Copy()
	return &c
}

// Amount builds an optional amount from a float, for tests and generators
func Amount(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// TruncateBetNumber limits a bet number to MaxBetNumberLength characters
func TruncateBetNumber(betNumber string) string {
	r := []rune(betNumber)
	if len(r) > MaxBetNumberLength {
		return string(r[:MaxBetNumberLength])
	}
	return betNumber
}
