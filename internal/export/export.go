// Package export serializes the current quote table for scripting: CSV,
// JSON, or an aligned plain-text table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tickertop/tickertop/internal/app"
	"github.com/tickertop/tickertop/pkg/models"
)

// Format selects the output encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	Text Format = "text"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case CSV, JSON, Text:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Snapshot is the exported view of one refresh cycle.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Quotes    []models.Quote `json:"quotes"`
	Portfolio *app.Portfolio `json:"portfolio,omitempty"`
}

// Write serializes the snapshot in the given format.
func Write(w io.Writer, format Format, snap Snapshot) error {
	switch format {
	case CSV:
		return writeCSV(w, snap.Quotes)
	case JSON:
		return writeJSON(w, snap)
	case Text:
		return writeText(w, snap)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

var csvHeader = []string{
	"symbol", "name", "price", "change", "change_percent",
	"volume", "market_cap", "currency", "market_state",
}

func writeCSV(w io.Writer, quotes []models.Quote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, q := range quotes {
		rec := []string{
			q.Symbol,
			q.Name,
			strconv.FormatFloat(q.Price, 'f', 2, 64),
			strconv.FormatFloat(q.Change, 'f', 2, 64),
			strconv.FormatFloat(q.ChangePercent, 'f', 2, 64),
			strconv.FormatUint(q.Volume, 10),
			strconv.FormatUint(q.MarketCap, 10),
			q.Currency,
			q.MarketState.Display(),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", q.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

func writeText(w io.Writer, snap Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tPRICE\tCHANGE\tCHG%\tVOLUME\tMKT CAP")
	for _, q := range snap.Quotes {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%+.2f\t%+.2f%%\t%s\t%s\n",
			q.Symbol, q.Name, q.Price, q.Change, q.ChangePercent,
			FormatVolume(q.Volume), FormatMarketCap(q.MarketCap))
	}

	if p := snap.Portfolio; p != nil {
		fmt.Fprintf(tw, "\nPORTFOLIO\tvalue %.2f\tcost %.2f\tpnl %+.2f (%+.2f%%)\tday %+.2f\n",
			p.TotalValue, p.TotalCost, p.ProfitLoss, p.ProfitLossPct, p.DayChange)
	}
	return tw.Flush()
}

// FormatVolume renders share/coin volume compactly, e.g. "12M".
func FormatVolume(v uint64) string {
	if v == 0 {
		return "-"
	}
	return humanize.SIWithDigits(float64(v), 1, "")
}

// FormatMarketCap renders market cap compactly, "-" when unknown.
func FormatMarketCap(v uint64) string {
	if v == 0 {
		return "-"
	}
	return humanize.SIWithDigits(float64(v), 2, "")
}

// FormatAge renders how old a quote is, e.g. "5 seconds ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
