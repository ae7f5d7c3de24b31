// Package ticket assembles printable tickets from a finalized session.
package ticket

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/yourusername/beast-reader/internal/calculator"
	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/session"
)

// Defaults
const (
	DefaultTitle  = "Beast Reader Cricket"
	DefaultQRSize = 128
)

// Ticket numbers are 8 digits: 10000000..99999999
const (
	minTicketNumber   = 10000000
	ticketNumberRange = 90000000
)

// Row is a single printed play
type Row struct {
	Index     int              `json:"index"`
	BetNumber string           `json:"betNumber"`
	GameMode  models.GameMode  `json:"gameMode"`
	Straight  *decimal.Decimal `json:"straight"`
	Box       *decimal.Decimal `json:"box"`
	Combo     *decimal.Decimal `json:"combo"`
	Total     decimal.Decimal  `json:"total"`
}

// Ticket is an issued, printable ticket
type Ticket struct {
	Number              string          `json:"number"`
	Title               string          `json:"title"`
	Date                string          `json:"date"`
	Tracks              []string        `json:"tracks"`
	EffectiveTrackCount int             `json:"effectiveTrackCount"`
	IssuedAt            time.Time       `json:"issuedAt"`
	Rows                []Row           `json:"rows"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
}

// Issuer numbers and records tickets
type Issuer struct {
	title  string
	qrSize int
	audit  *logger.AuditLogger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewIssuer creates an issuer. A nil rng draws from a randomly seeded source.
func NewIssuer(title string, qrSize int, rng *rand.Rand, audit *logger.AuditLogger) *Issuer {
	if title == "" {
		title = DefaultTitle
	}
	if qrSize <= 0 {
		qrSize = DefaultQRSize
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Issuer{title: title, qrSize: qrSize, rng: rng, audit: audit}
}

// QRSize returns the configured QR code edge in pixels
func (is *Issuer) QRSize() int {
	return is.qrSize
}

// Issue finalizes the session into a ticket. The session is left unchanged.
func (is *Issuer) Issue(sess *session.Session) (*Ticket, error) {
	view, err := sess.Finalize()
	if err != nil {
		return nil, err
	}

	t := Build(view, is.title, is.nextNumber(), sess.Now())

	metrics.RecordTicketIssued()
	if is.audit != nil {
		is.audit.LogTicketIssued(t.Number, t.Date, t.Tracks, len(t.Rows), t.GrandTotal.StringFixed(2), t.IssuedAt)
	}
	return t, nil
}

func (is *Issuer) nextNumber() string {
	is.mu.Lock()
	defer is.mu.Unlock()
	return strconv.Itoa(minTicketNumber + is.rng.IntN(ticketNumberRange))
}

// Build lays out a ticket from a session view
func Build(view session.View, title, number string, issuedAt time.Time) *Ticket {
	rows := make([]Row, len(view.Plays))
	for i, p := range view.Plays {
		rows[i] = Row{
			Index:     i + 1,
			BetNumber: p.BetNumber,
			GameMode:  p.GameMode,
			Straight:  models.CloneAmount(p.StraightAmount),
			Box:       models.CloneAmount(p.BoxAmount),
			Combo:     models.CloneAmount(p.ComboAmount),
			Total:     calculator.PlayTotal(p),
		}
	}

	return &Ticket{
		Number:              number,
		Title:               title,
		Date:                view.SelectedDate,
		Tracks:              append([]string(nil), view.DisplayTracks...),
		EffectiveTrackCount: view.EffectiveTrackCount,
		IssuedAt:            issuedAt,
		Rows:                rows,
		GrandTotal:          view.GrandTotal,
	}
}

// QRCodePNG encodes the ticket number, and nothing else, as a PNG QR code
// with high error correction.
func (t *Ticket) QRCodePNG(size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(t.Number, qrcode.High, size)
}
