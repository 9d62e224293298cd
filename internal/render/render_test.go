package render

import (
	"context"
	"strings"
	"testing"

	"github.com/tickertop/tickertop/internal/app"
	"github.com/tickertop/tickertop/internal/config"
	"github.com/tickertop/tickertop/pkg/models"
)

type stubFetcher struct {
	quotes []models.Quote
}

func (s *stubFetcher) GetQuotes(context.Context, []string) models.BatchResult {
	return models.BatchResult{Quotes: s.quotes}
}

func newRenderedApp(t *testing.T) *app.App {
	t.Helper()
	cfg := &config.Config{
		General: config.GeneralConfig{RefreshInterval: 5},
		Watch:   config.WatchlistConfig{Symbols: []string{"AAPL", "MSFT"}},
		Display: config.DisplayConfig{ShowHeader: true, SortBy: "symbol"},
		Holdings: []config.HoldingConfig{
			{Symbol: "AAPL", Quantity: 10, CostBasis: 100},
		},
	}
	f := &stubFetcher{quotes: []models.Quote{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 150, Change: 2, ChangePercent: 1.35, Volume: 1000000},
		{Symbol: "MSFT", Name: "Microsoft Corporation Inc.", Price: 300, Change: -1, ChangePercent: -0.33},
	}}
	a, err := app.New(cfg, app.Options{ShowHoldings: true}, f, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.RefreshQuotes(context.Background())
	return a
}

func TestRenderBatch(t *testing.T) {
	a := newRenderedApp(t)
	var buf strings.Builder
	r := New(&buf, config.DisplayConfig{ShowHeader: true}, false, false)
	if err := r.Render(a); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"tickertop", "SYMBOL", "AAPL", "MSFT", "portfolio"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[2J") {
		t.Error("batch mode must not clear the screen")
	}
	if strings.Contains(out, "\033[32m") {
		t.Error("colors disabled, no ANSI color codes expected")
	}
	// Long names are truncated.
	if strings.Contains(out, "Microsoft Corporation Inc.") {
		t.Error("expected long name truncated")
	}
}

func TestRenderLiveClearsScreen(t *testing.T) {
	a := newRenderedApp(t)
	var buf strings.Builder
	r := New(&buf, config.DisplayConfig{}, true, true)
	if err := r.Render(a); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\033[2J") {
		t.Error("live mode must start with a clear-screen sequence")
	}
	if !strings.Contains(out, "\033[32m") {
		t.Error("expected gain colored green")
	}
	if !strings.Contains(out, "\033[31m") {
		t.Error("expected loss colored red")
	}
}

func TestRenderSelectionMarker(t *testing.T) {
	a := newRenderedApp(t)
	a.SelectLast()

	var buf strings.Builder
	r := New(&buf, config.DisplayConfig{}, false, false)
	if err := r.Render(a); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ">MSFT") {
		t.Errorf("expected selection marker on MSFT:\n%s", buf.String())
	}
}

func TestRenderShowsWarning(t *testing.T) {
	cfg := &config.Config{
		General: config.GeneralConfig{RefreshInterval: 5},
		Watch:   config.WatchlistConfig{Symbols: []string{"AAPL"}},
		Display: config.DisplayConfig{SortBy: "symbol"},
	}
	a, err := app.New(cfg, app.Options{}, failingFetcher{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.RefreshQuotes(context.Background())

	var buf strings.Builder
	r := New(&buf, config.DisplayConfig{}, false, false)
	if err := r.Render(a); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Errorf("expected warning line:\n%s", buf.String())
	}
}

type failingFetcher struct{}

func (failingFetcher) GetQuotes(_ context.Context, symbols []string) models.BatchResult {
	var batch models.BatchResult
	for _, sym := range symbols {
		batch.Failures = append(batch.Failures, models.FetchFailure{Symbol: sym, Reason: "unreachable"})
	}
	return batch
}
