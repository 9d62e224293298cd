// Package render writes the dashboard table to a terminal: a plain batch
// mode for piping, and a live mode that redraws in place every cycle.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tickertop/tickertop/internal/alert"
	"github.com/tickertop/tickertop/internal/app"
	"github.com/tickertop/tickertop/internal/config"
	"github.com/tickertop/tickertop/internal/export"
)

const (
	ansiClear = "\033[2J\033[H"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

// Renderer draws the quote table. Color and layout follow the display
// config; live mode prepends a clear-screen sequence so the table redraws
// in place.
type Renderer struct {
	out     io.Writer
	display config.DisplayConfig
	color   bool
	live    bool
}

// New creates a renderer writing to out.
func New(out io.Writer, display config.DisplayConfig, color, live bool) *Renderer {
	return &Renderer{out: out, display: display, color: color, live: live}
}

// Render draws one frame of the dashboard from the app state.
func (r *Renderer) Render(a *app.App) error {
	var b strings.Builder
	if r.live {
		b.WriteString(ansiClear)
	}

	if r.display.ShowHeader {
		r.writeHeader(&b, a)
	}
	r.writeTable(&b, a)

	if a.ShowHoldings() {
		r.writePortfolio(&b, a.Portfolio())
	}
	if triggered := a.TriggeredAlerts(); len(triggered) > 0 {
		r.writeAlerts(&b, triggered)
	}
	if msg := a.LastError(); msg != "" {
		fmt.Fprintf(&b, "%s\n", r.paint(ansiRed, "warning: "+msg))
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) writeHeader(b *strings.Builder, a *app.App) {
	group := a.CurrentGroup()
	if group == "" {
		group = "all"
	}
	refreshed := export.FormatAge(a.LastRefresh())
	fmt.Fprintf(b, "%s  group:%s  sort:%s  cycle:%d  refreshed %s\n\n",
		r.paint(ansiBold, "tickertop"), group, a.SortField(), a.Iteration(), refreshed)
}

func (r *Renderer) writeTable(b *strings.Builder, a *app.App) {
	quotes := a.Quotes()
	selected := a.Selected()

	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	header := "SYMBOL\tNAME\tPRICE\tCHANGE\tCHG%\tVOLUME\tMKT CAP\tTREND"
	if r.display.ShowFundamentals {
		header += "\tOPEN\tHIGH\tLOW"
	}
	fmt.Fprintln(tw, header)

	for i, q := range quotes {
		marker := " "
		if i == selected {
			marker = ">"
		}
		change := fmt.Sprintf("%+.2f", q.Change)
		pct := fmt.Sprintf("%+.2f%%", q.ChangePercent)
		if q.Change > 0 {
			change, pct = r.paint(ansiGreen, change), r.paint(ansiGreen, pct)
		} else if q.Change < 0 {
			change, pct = r.paint(ansiRed, change), r.paint(ansiRed, pct)
		}

		fmt.Fprintf(tw, "%s%s\t%s\t%.2f\t%s\t%s\t%s\t%s\t%s",
			marker, q.Symbol, truncateName(q.Name), q.Price, change, pct,
			export.FormatVolume(q.Volume), export.FormatMarketCap(q.MarketCap),
			a.Sparkline(q.Symbol))
		if r.display.ShowFundamentals {
			fmt.Fprintf(tw, "\t%.2f\t%.2f\t%.2f", q.Open, q.DayHigh, q.DayLow)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func (r *Renderer) writePortfolio(b *strings.Builder, p app.Portfolio) {
	pnl := fmt.Sprintf("%+.2f (%+.2f%%)", p.ProfitLoss, p.ProfitLossPct)
	if p.ProfitLoss > 0 {
		pnl = r.paint(ansiGreen, pnl)
	} else if p.ProfitLoss < 0 {
		pnl = r.paint(ansiRed, pnl)
	}
	fmt.Fprintf(b, "\nportfolio  value %.2f  cost %.2f  pnl %s  day %+.2f\n",
		p.TotalValue, p.TotalCost, pnl, p.DayChange)
}

func (r *Renderer) writeAlerts(b *strings.Builder, triggered []alert.TriggeredAlert) {
	fmt.Fprintf(b, "\n%s\n", r.paint(ansiBold, "alerts"))
	for _, al := range triggered {
		fmt.Fprintf(b, "  %s\n", r.paint(ansiRed, al.String()))
	}
}

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

// truncateName keeps company names from blowing out the table width.
func truncateName(name string) string {
	const max = 24
	if len(name) <= max {
		return name
	}
	return name[:max-1] + "…"
}
