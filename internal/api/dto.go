package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/ticket"
	"github.com/yourusername/beast-reader/internal/tracks"
)

// DateRequest sets the bet date
type DateRequest struct {
	Date string `json:"date"`
}

// TracksRequest replaces the track selection
type TracksRequest struct {
	Tracks []string `json:"tracks"`
}

// ToggleTrackRequest flips one track
type ToggleTrackRequest struct {
	Track string `json:"track"`
}

// UpdatePlayRequest changes a single field of a play
type UpdatePlayRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// IDsRequest names a set of plays
type IDsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// CountResponse reports how many plays an operation touched
type CountResponse struct {
	Count int `json:"count"`
}

// PlaysResponse lists plays added to the session
type PlaysResponse struct {
	Plays []models.Play `json:"plays"`
}

// EntryRequest stages one typed play
type EntryRequest struct {
	BetNumber string           `json:"betNumber"`
	Straight  *decimal.Decimal `json:"straight"`
	Box       *decimal.Decimal `json:"box"`
	Combo     *decimal.Decimal `json:"combo"`
}

// QuickPickRequest stages random plays
type QuickPickRequest struct {
	Mode     models.GameMode  `json:"mode"`
	Count    int              `json:"count"`
	Straight *decimal.Decimal `json:"straight"`
	Box      *decimal.Decimal `json:"box"`
	Combo    *decimal.Decimal `json:"combo"`
}

// RoundDownRequest expands a "DD0-DD9" range
type RoundDownRequest struct {
	BetNumber string           `json:"betNumber"`
	Straight  *decimal.Decimal `json:"straight"`
}

// StagedPlaysRequest carries wizard plays to preview or commit
type StagedPlaysRequest struct {
	Plays []models.WizardPlay `json:"plays"`
}

// StagedPlaysResponse returns freshly generated wizard plays
type StagedPlaysResponse struct {
	Plays []models.WizardPlay `json:"plays"`
}

// OCRPreviewRow is an interpreted play classified against the current tracks
type OCRPreviewRow struct {
	models.OCRResult
	GameMode models.GameMode `json:"gameMode"`
	Total    decimal.Decimal `json:"total"`
}

// InterpretResponse is the result of reading a ticket photo
type InterpretResponse struct {
	Results []models.OCRResult `json:"results"`
	Preview []OCRPreviewRow    `json:"preview"`
	Total   decimal.Decimal    `json:"total"`
}

// ImportRequest commits interpreted plays to the session
type ImportRequest struct {
	Results []models.OCRResult `json:"results"`
}

// TicketResponse is an issued ticket with its printable forms
type TicketResponse struct {
	Ticket  *ticket.Ticket `json:"ticket"`
	Receipt string         `json:"receipt"`
	QRCode  string         `json:"qrCode"`
}

// TrackStatus is a catalog track with its state for the session
type TrackStatus struct {
	tracks.Track
	Closed   bool `json:"closed"`
	Selected bool `json:"selected"`
}

// CategoryStatus is a catalog category with per-track state
type CategoryStatus struct {
	Name   string        `json:"name"`
	Tracks []TrackStatus `json:"tracks"`
}

// CalculateRequest prices a single row
type CalculateRequest struct {
	BetNumber string           `json:"betNumber"`
	Tracks    []string         `json:"tracks"`
	Straight  *decimal.Decimal `json:"straight"`
	Box       *decimal.Decimal `json:"box"`
	Combo     *decimal.Decimal `json:"combo"`
}

// ClassifyResponse describes how a bet number is read for a track selection
type ClassifyResponse struct {
	BetNumber    string           `json:"betNumber"`
	GameMode     models.GameMode  `json:"gameMode"`
	Permutations int64            `json:"permutations"`
	Total        *decimal.Decimal `json:"total,omitempty"`
}
