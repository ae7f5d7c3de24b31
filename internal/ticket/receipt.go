package ticket

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const receiptTimeLayout = "2006-01-02 15:04:05"

var receiptHeader = []string{"#", "Bet", "Str", "Box", "Com", "Total"}

// Receipt renders the ticket as fixed-width text. Amounts use two decimals;
// absent amounts print as "-".
func (t *Ticket) Receipt() string {
	p := message.NewPrinter(language.English)

	cells := [][]string{receiptHeader}
	for _, r := range t.Rows {
		cells = append(cells, []string{
			p.Sprintf("%d", r.Index),
			r.BetNumber,
			amount(r.Straight),
			amount(r.Box),
			amount(r.Combo),
			"$" + r.Total.StringFixed(2),
		})
	}

	widths := make([]int, len(receiptHeader))
	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	lines := make([]string, 0, len(cells))
	for _, row := range cells {
		parts := make([]string, len(row))
		for i, c := range row {
			if i == len(row)-1 {
				parts[i] = runewidth.FillLeft(c, widths[i])
			} else {
				parts[i] = runewidth.FillRight(c, widths[i])
			}
		}
		lines = append(lines, strings.Join(parts, "  "))
	}

	meta := []struct{ k, v string }{
		{"Date:", t.Date},
		{"Tracks:", strings.Join(t.Tracks, ", ")},
		{"Ticket #:", t.Number},
		{"Time:", t.IssuedAt.Format(receiptTimeLayout)},
	}

	inner := 0
	for _, l := range lines {
		inner = max(inner, runewidth.StringWidth(l))
	}
	for _, m := range meta {
		inner = max(inner, runewidth.StringWidth(m.k)+1+runewidth.StringWidth(m.v))
	}
	grand := "$" + t.GrandTotal.StringFixed(2)
	inner = max(inner, runewidth.StringWidth(t.Title), len("GRAND TOTAL:")+1+len(grand))

	rule := strings.Repeat("-", inner)
	border := strings.Repeat("=", inner)

	var sb strings.Builder
	left := (inner - runewidth.StringWidth(t.Title)) / 2
	sb.WriteString(border + "\n")
	sb.WriteString(blank(left) + t.Title + "\n")
	sb.WriteString(border + "\n")
	for _, m := range meta {
		sb.WriteString(runewidth.FillRight(m.k, 10) + m.v + "\n")
	}
	sb.WriteString(rule + "\n")
	for _, l := range lines {
		sb.WriteString(strings.TrimRight(l, " ") + "\n")
	}
	sb.WriteString(rule + "\n")
	sb.WriteString("GRAND TOTAL:" + runewidth.FillLeft(grand, inner-len("GRAND TOTAL:")) + "\n")
	if t.EffectiveTrackCount > 1 {
		sb.WriteString(p.Sprintf("(%d plays x %d tracks)\n", len(t.Rows), t.EffectiveTrackCount))
	}
	return sb.String()
}

func amount(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
