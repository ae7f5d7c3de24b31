package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PlayUpdate is a single-field change to a play. The set of variants is
// closed: BetNumberUpdate, StraightAmountUpdate, BoxAmountUpdate, ComboAmountUpdate.
type PlayUpdate interface {
	playUpdate()
}

// BetNumberUpdate replaces the bet number and forces reclassification
type BetNumberUpdate struct {
	Value string
}

// StraightAmountUpdate replaces the straight stake; nil clears it
type StraightAmountUpdate struct {
	Value *decimal.Decimal
}

// BoxAmountUpdate replaces the box stake; nil clears it
type BoxAmountUpdate struct {
	Value *decimal.Decimal
}

// ComboAmountUpdate replaces the combo stake; nil clears it
type ComboAmountUpdate struct {
	Value *decimal.Decimal
}

func (BetNumberUpdate) playUpdate()      {}
func (StraightAmountUpdate) playUpdate() {}
func (BoxAmountUpdate) playUpdate()      {}
func (ComboAmountUpdate) playUpdate()    {}

// Field names accepted by ParsePlayUpdate
const (
	FieldBetNumber      = "betNumber"
	FieldStraightAmount = "straightAmount"
	FieldBoxAmount      = "boxAmount"
	FieldComboAmount    = "comboAmount"
)

// ParsePlayUpdate decodes a field name and raw JSON value into a PlayUpdate
func ParsePlayUpdate(field string, raw json.RawMessage) (PlayUpdate, error) {
	if field == FieldBetNumber {
		var s string
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", field, err)
			}
		}
		return BetNumberUpdate{Value: s}, nil
	}

	var amount *decimal.Decimal
	if len(raw) > 0 && string(raw) != "null" {
		var d decimal.Decimal
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", field, err)
		}
		amount = &d
	}

	switch field {
	case FieldStraightAmount:
		if err := (Amounts{Straight: amount}).Validate(); err != nil {
			return nil, err
		}
		return StraightAmountUpdate{Value: amount}, nil
	case FieldBoxAmount:
		if err := (Amounts{Box: amount}).Validate(); err != nil {
			return nil, err
		}
		return BoxAmountUpdate{Value: amount}, nil
	case FieldComboAmount:
		if err := (Amounts{Combo: amount}).Validate(); err != nil {
			return nil, err
		}
		return ComboAmountUpdate{Value: amount}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayField, field)
	}
}
