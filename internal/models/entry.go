package models

import "github.com/shopspring/decimal"

// OCRResult is a single play read from a ticket image. Any game mode the
// collaborator might suggest is ignored; classification happens locally.
type OCRResult struct {
	BetNumber      string           `json:"betNumber"`
	StraightAmount *decimal.Decimal `json:"straightAmount"`
	BoxAmount      *decimal.Decimal `json:"boxAmount"`
	ComboAmount    *decimal.Decimal `json:"comboAmount"`
}

// WizardPlay is a play staged by the quick-entry wizard
type WizardPlay struct {
	BetNumber string           `json:"betNumber"`
	GameMode  GameMode         `json:"gameMode"`
	Straight  *decimal.Decimal `json:"straight"`
	Box       *decimal.Decimal `json:"box"`
	Combo     *decimal.Decimal `json:"combo"`
}

// PlaySource identifies how plays entered the session
type PlaySource string

const (
	PlaySourceManual PlaySource = "manual"
	PlaySourceWizard PlaySource = "wizard"
	PlaySourceOCR    PlaySource = "ocr"
)
