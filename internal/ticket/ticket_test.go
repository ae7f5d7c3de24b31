package ticket

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/session"
)

var issuedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Location = time.UTC
	return session.New(cfg, session.WithClock(func() time.Time { return issuedAt }))
}

func addPlay(t *testing.T, s *session.Session, bet string, st, bx, co *decimal.Decimal) {
	t.Helper()
	p, err := s.AddPlay()
	require.NoError(t, err)
	_, err = s.UpdatePlay(p.ID, models.BetNumberUpdate{Value: bet})
	require.NoError(t, err)
	_, err = s.UpdatePlay(p.ID, models.StraightAmountUpdate{Value: st})
	require.NoError(t, err)
	_, err = s.UpdatePlay(p.ID, models.BoxAmountUpdate{Value: bx})
	require.NoError(t, err)
	_, err = s.UpdatePlay(p.ID, models.ComboAmountUpdate{Value: co})
	require.NoError(t, err)
}

func TestIssueRequiresGate(t *testing.T) {
	issuer := NewIssuer("", 0, rand.New(rand.NewPCG(1, 1)), nil)
	s := newSession(t)

	_, err := issuer.Issue(s)
	assert.True(t, errors.Is(err, models.ErrNoPlays))

	_, err = s.AddPlay()
	require.NoError(t, err)
	_, err = issuer.Issue(s)
	assert.True(t, errors.Is(err, models.ErrInvalidPlays))
}

func TestIssue(t *testing.T) {
	issuer := NewIssuer("", 0, rand.New(rand.NewPCG(7, 7)), nil)
	s := newSession(t)
	s.SetTracks([]string{"New York Evening", "Georgia Evening", "Venezuela"})
	one := models.Amount(1)
	addPlay(t, s, "123", one, one, one)
	addPlay(t, s, "12-34", models.Amount(2), nil, nil)

	tk, err := issuer.Issue(s)
	require.NoError(t, err)

	n, err := strconv.Atoi(tk.Number)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 10000000)
	assert.LessOrEqual(t, n, 99999999)
	assert.Len(t, tk.Number, 8)

	assert.Equal(t, DefaultTitle, tk.Title)
	assert.Equal(t, "2026-03-14", tk.Date)
	assert.Equal(t, []string{"New York Evening", "Georgia Evening"}, tk.Tracks)
	assert.Equal(t, issuedAt, tk.IssuedAt)
	require.Len(t, tk.Rows, 2)
	assert.Equal(t, 1, tk.Rows[0].Index)
	assert.True(t, decimal.NewFromInt(8).Equal(tk.Rows[0].Total))
	assert.True(t, decimal.NewFromInt(2).Equal(tk.Rows[1].Total))
	assert.True(t, decimal.NewFromInt(20).Equal(tk.GrandTotal))

	assert.Len(t, s.Plays(), 2, "issuing leaves the session untouched")
}

func TestReceipt(t *testing.T) {
	tk := &Ticket{
		Number:              "12345678",
		Title:               DefaultTitle,
		Date:                "2026-03-14",
		Tracks:              []string{"New York Evening", "Georgia Evening"},
		EffectiveTrackCount: 2,
		IssuedAt:            issuedAt,
		Rows: []Row{
			{Index: 1, BetNumber: "123", Straight: models.Amount(1), Total: decimal.NewFromInt(1)},
			{Index: 2, BetNumber: "12-34", Straight: models.Amount(0.5), Box: models.Amount(2), Total: decimal.NewFromFloat(2.5)},
		},
		GrandTotal: decimal.NewFromInt(7),
	}

	out := tk.Receipt()
	assert.Contains(t, out, "Beast Reader Cricket")
	assert.Contains(t, out, "Tracks:   New York Evening, Georgia Evening")
	assert.Contains(t, out, "Ticket #: 12345678")
	assert.Contains(t, out, "Time:     2026-03-14 09:30:00")
	assert.Contains(t, out, "$7.00")
	assert.Contains(t, out, "(2 plays x 2 tracks)")

	lines := strings.Split(out, "\n")
	var row1, row2 string
	for _, l := range lines {
		if strings.HasPrefix(l, "1  ") {
			row1 = l
		}
		if strings.HasPrefix(l, "2  ") {
			row2 = l
		}
	}
	require.NotEmpty(t, row1)
	require.NotEmpty(t, row2)
	assert.Contains(t, row1, "1.00")
	assert.Contains(t, row1, "-")
	assert.Contains(t, row2, "0.50")
	assert.Contains(t, row2, "2.00")
	assert.True(t, strings.HasSuffix(row1, "$1.00"))
	assert.True(t, strings.HasSuffix(row2, "$2.50"))
	assert.Equal(t, len(row1), len(row2), "columns are aligned")
}

func TestQRCodePNG(t *testing.T) {
	tk := &Ticket{Number: "12345678"}
	png, err := tk.QRCodePNG(128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
