package app

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/tickertop/tickertop/internal/alert"
	"github.com/tickertop/tickertop/internal/config"
	"github.com/tickertop/tickertop/pkg/models"
)

// fakeFetcher serves canned quotes and records which symbols were requested
// on each call.
type fakeFetcher struct {
	mu     sync.Mutex
	quotes map[string]models.Quote
	fail   map[string]string
	calls  [][]string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		quotes: make(map[string]models.Quote),
		fail:   make(map[string]string),
	}
}

func (f *fakeFetcher) serve(q models.Quote) { f.quotes[q.Symbol] = q }

func (f *fakeFetcher) GetQuotes(_ context.Context, symbols []string) models.BatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), symbols...))

	var batch models.BatchResult
	for _, sym := range symbols {
		if reason, ok := f.fail[sym]; ok {
			batch.Failures = append(batch.Failures, models.FetchFailure{Symbol: sym, Reason: reason})
			continue
		}
		if q, ok := f.quotes[sym]; ok {
			batch.Quotes = append(batch.Quotes, q)
		} else {
			batch.Failures = append(batch.Failures, models.FetchFailure{Symbol: sym, Reason: "no data"})
		}
	}
	return batch
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig(symbols ...string) *config.Config {
	return &config.Config{
		General: config.GeneralConfig{RefreshInterval: 5, Timeout: 10},
		Watch:   config.WatchlistConfig{Symbols: symbols},
		Display: config.DisplayConfig{SortBy: "change_percent", SortDescending: true},
	}
}

func newTestApp(t *testing.T, cfg *config.Config, opts Options, f *fakeFetcher) *App {
	t.Helper()
	a, err := New(cfg, opts, f, nil)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewExpandsSymbols(t *testing.T) {
	a := newTestApp(t, testConfig("BTC", "ETH.X", "AAPL"), Options{}, newFakeFetcher())
	want := []string{"BTC-USD", "ETH-USD", "AAPL"}
	got := a.ActiveSymbols()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestNewRejectsInvalidSymbol(t *testing.T) {
	if _, err := New(testConfig("bad/sym"), Options{}, newFakeFetcher(), nil); err == nil {
		t.Error("expected error for an invalid symbol")
	}
}

func TestRefreshSuccess(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: 1.5})
	f.serve(models.Quote{Symbol: "MSFT", Price: 300, ChangePercent: 3.0})

	a := newTestApp(t, testConfig("AAPL", "MSFT"), Options{}, f)
	a.RefreshQuotes(context.Background())

	quotes := a.Quotes()
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %v", quotes)
	}
	// Sorted by change_percent descending.
	if quotes[0].Symbol != "MSFT" {
		t.Errorf("expected MSFT first, got %v", quotes)
	}
	if a.Iteration() != 1 {
		t.Errorf("expected iteration 1, got %d", a.Iteration())
	}
	if a.LastError() != "" {
		t.Errorf("expected clean cycle, got %q", a.LastError())
	}
	if got := a.Prices("AAPL"); len(got) != 1 || got[0] != 150 {
		t.Errorf("expected history recorded, got %v", got)
	}
	if a.LastRefresh().IsZero() {
		t.Error("expected last refresh timestamp")
	}
}

func TestRefreshAllFailedKeepsPriorQuotes(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150})
	a := newTestApp(t, testConfig("AAPL"), Options{}, f)
	a.RefreshQuotes(context.Background())

	// Next cycle fails entirely.
	delete(f.quotes, "AAPL")
	f.fail["AAPL"] = "connection refused"
	a.RefreshQuotes(context.Background())

	if len(a.Quotes()) != 1 {
		t.Error("an all-failed cycle must keep the previous quotes")
	}
	if a.Iteration() != 1 {
		t.Errorf("an all-failed cycle must not count as an iteration, got %d", a.Iteration())
	}
	if !strings.Contains(a.LastError(), "connection refused") {
		t.Errorf("expected failure reason surfaced, got %q", a.LastError())
	}
}

func TestRefreshPartialFailure(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150})
	f.fail["MSFT"] = "timeout"

	a := newTestApp(t, testConfig("AAPL", "MSFT"), Options{}, f)
	a.RefreshQuotes(context.Background())

	if len(a.Quotes()) != 1 {
		t.Errorf("expected the successful quote kept, got %v", a.Quotes())
	}
	if !strings.Contains(a.LastError(), "MSFT") {
		t.Errorf("expected MSFT in the warning, got %q", a.LastError())
	}
	if a.Iteration() != 1 {
		t.Errorf("partial failure still completes the cycle, got iteration %d", a.Iteration())
	}
}

func TestErrorTruncation(t *testing.T) {
	msg := failureSummary([]models.FetchFailure{{
		Symbol: "AAPL",
		Reason: strings.Repeat("x", 500),
	}})
	if len([]rune(msg)) != maxErrorLen+1 {
		t.Errorf("expected %d chars plus ellipsis, got %d", maxErrorLen, len([]rune(msg)))
	}
	if !strings.HasSuffix(msg, "…") {
		t.Errorf("expected ellipsis suffix, got %q", msg)
	}
}

func TestEveryCycleFetchesFreshQuotes(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150})

	a := newTestApp(t, testConfig("AAPL"), Options{}, f)
	a.RefreshQuotes(context.Background())

	f.serve(models.Quote{Symbol: "AAPL", Price: 999})
	a.ForceRefresh()
	a.RefreshQuotes(context.Background())

	if got := f.callCount(); got != 2 {
		t.Fatalf("every cycle must hit the fetcher, got %d calls", got)
	}
	if q := a.Quotes()[0]; q.Price != 999 {
		t.Errorf("expected the fresh price 999, got %.2f", q.Price)
	}
	if got := a.Prices("AAPL"); len(got) != 2 || got[1] != 999 {
		t.Errorf("expected one history point per cycle, got %v", got)
	}
	if a.Iteration() != 2 {
		t.Errorf("expected iteration 2, got %d", a.Iteration())
	}
}

func TestFailedSymbolFallsBackToCache(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: 1})
	f.serve(models.Quote{Symbol: "MSFT", Price: 300, ChangePercent: 2})

	a := newTestApp(t, testConfig("AAPL", "MSFT"), Options{}, f)
	a.RefreshQuotes(context.Background())

	delete(f.quotes, "MSFT")
	f.fail["MSFT"] = "timeout"
	a.RefreshQuotes(context.Background())

	quotes := a.Quotes()
	if len(quotes) != 2 {
		t.Fatalf("a failed symbol must keep its last good quote, got %v", quotes)
	}
	var msft models.Quote
	for _, q := range quotes {
		if q.Symbol == "MSFT" {
			msft = q
		}
	}
	if msft.Price != 300 {
		t.Errorf("expected the cached MSFT quote at 300, got %+v", msft)
	}
	if !strings.Contains(a.LastError(), "MSFT") {
		t.Errorf("expected MSFT in the warning, got %q", a.LastError())
	}
	// History only grows for prices that were actually fetched.
	if got := a.Prices("MSFT"); len(got) != 1 {
		t.Errorf("fallback quotes must not be recorded as history, got %v", got)
	}
}

func TestFailedSymbolFallsBackToPriorQuote(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150})
	f.serve(models.Quote{Symbol: "MSFT", Price: 300})

	a := newTestApp(t, testConfig("AAPL", "MSFT"), Options{}, f)
	a.RefreshQuotes(context.Background())

	// Cache expired, MSFT down: the previously displayed quote survives.
	a.cache.Flush()
	delete(f.quotes, "MSFT")
	f.fail["MSFT"] = "timeout"
	a.RefreshQuotes(context.Background())

	quotes := a.Quotes()
	if len(quotes) != 2 {
		t.Fatalf("expected the prior MSFT quote retained, got %v", quotes)
	}
}

func TestAlertsEvaluatedOnRefresh(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 210})

	cfg := testConfig("AAPL")
	cfg.Alerts = []config.AlertConfig{{Symbol: "AAPL", Condition: "above", Price: 200}}

	a := newTestApp(t, cfg, Options{}, f)
	a.RefreshQuotes(context.Background())

	triggered := a.TriggeredAlerts()
	if len(triggered) != 1 || triggered[0].Symbol != "AAPL" {
		t.Fatalf("expected the alert to fire, got %v", triggered)
	}
	if triggered[0].Price != 210 {
		t.Errorf("expected the firing price captured, got %v", triggered[0].Price)
	}
}

func TestShouldQuitAtIterationCap(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150})

	a := newTestApp(t, testConfig("AAPL"), Options{MaxIterations: 2}, f)
	if a.ShouldQuit() {
		t.Fatal("must not quit before any iteration")
	}
	a.RefreshQuotes(context.Background())
	if a.ShouldQuit() {
		t.Fatal("must not quit before the cap")
	}
	a.RefreshQuotes(context.Background())
	if !a.ShouldQuit() {
		t.Error("must quit once the cap is reached")
	}
}

func TestGroupCycling(t *testing.T) {
	cfg := testConfig("AAPL")
	cfg.Groups = map[string][]string{
		"crypto": {"BTC", "ETH.X"},
		"tech":   {"AAPL", "MSFT"},
	}

	a := newTestApp(t, cfg, Options{}, newFakeFetcher())
	if a.CurrentGroup() != "" {
		t.Fatalf("expected all-symbols view first, got %q", a.CurrentGroup())
	}

	a.NextGroup()
	if a.CurrentGroup() != "crypto" {
		t.Errorf("expected crypto (alphabetical first), got %q", a.CurrentGroup())
	}
	syms := a.ActiveSymbols()
	if len(syms) != 2 || syms[0] != "BTC-USD" || syms[1] != "ETH-USD" {
		t.Errorf("group symbols must be expanded, got %v", syms)
	}
	if !a.NeedsRefresh() {
		t.Error("group switch must force a refresh")
	}

	a.NextGroup()
	a.NextGroup()
	if a.CurrentGroup() != "" {
		t.Errorf("expected wrap back to all symbols, got %q", a.CurrentGroup())
	}
}

func TestSelectionClamped(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150})
	f.serve(models.Quote{Symbol: "MSFT", Price: 300})

	a := newTestApp(t, testConfig("AAPL", "MSFT"), Options{}, f)
	a.SelectPrev()
	if a.Selected() != 0 {
		t.Error("selection must not go above the first row")
	}

	a.RefreshQuotes(context.Background())
	a.SelectNext()
	a.SelectNext()
	if a.Selected() != 1 {
		t.Errorf("selection must clamp to the last row, got %d", a.Selected())
	}
	a.SelectFirst()
	if a.Selected() != 0 {
		t.Error("expected jump to top")
	}
	a.SelectLast()
	if a.Selected() != 1 {
		t.Error("expected jump to bottom")
	}
}

func TestSortControls(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: 1})
	f.serve(models.Quote{Symbol: "MSFT", Price: 300, ChangePercent: 2})

	a := newTestApp(t, testConfig("AAPL", "MSFT"), Options{}, f)
	a.RefreshQuotes(context.Background())

	a.SetSortField(models.SortSymbol)
	a.ToggleSortDirection() // descending -> ascending
	if got := a.Quotes(); got[0].Symbol != "AAPL" {
		t.Errorf("expected AAPL first ascending by symbol, got %v", got)
	}

	a.CycleSortField()
	if a.SortField() != models.SortName {
		t.Errorf("expected cycle to name, got %v", a.SortField())
	}
}

func TestSecureModeBlocksMutation(t *testing.T) {
	a := newTestApp(t, testConfig("AAPL"), Options{SecureMode: true}, newFakeFetcher())

	if err := a.AddAlert(alert.Alert{Symbol: "AAPL", Condition: alert.Above, TargetPrice: 1}); err != ErrSecureMode {
		t.Errorf("expected ErrSecureMode, got %v", err)
	}
	if err := a.BeginAlertSetup(); err != ErrSecureMode {
		t.Errorf("expected ErrSecureMode, got %v", err)
	}
	a.ToggleHoldings()
	if a.ShowHoldings() {
		t.Error("secure mode must block the holdings toggle")
	}
}

func TestPortfolioAggregates(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 200, Change: 2})

	cfg := testConfig("AAPL")
	cfg.Holdings = []config.HoldingConfig{
		{Symbol: "AAPL", Quantity: 10, CostBasis: 150},
		{Symbol: "MSFT", Quantity: 1, CostBasis: 300}, // no live quote
	}

	a := newTestApp(t, cfg, Options{}, f)
	a.RefreshQuotes(context.Background())

	p := a.Portfolio()
	if p.Positions != 2 {
		t.Errorf("expected 2 positions, got %d", p.Positions)
	}
	if p.TotalValue != 2000 {
		t.Errorf("expected value 2000, got %.2f", p.TotalValue)
	}
	if p.TotalCost != 1800 {
		t.Errorf("expected cost 1800, got %.2f", p.TotalCost)
	}
	if p.ProfitLoss != 200 {
		t.Errorf("expected PnL 200, got %.2f", p.ProfitLoss)
	}
	if p.DayChange != 20 {
		t.Errorf("expected day change 20, got %.2f", p.DayChange)
	}
}

func TestAlertSetupThroughApp(t *testing.T) {
	f := newFakeFetcher()
	f.serve(models.Quote{Symbol: "AAPL", Price: 150})

	a := newTestApp(t, testConfig("AAPL"), Options{}, f)
	a.RefreshQuotes(context.Background())

	if err := a.BeginAlertSetup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := a.AlertSetup()
	s.ConfirmCondition()
	for _, ch := range "180" {
		s.Type(ch)
	}
	if err := a.CommitAlertSetup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alerts := a.AlertsForSymbol("AAPL")
	if len(alerts) != 1 || alerts[0].TargetPrice != 180 {
		t.Errorf("expected the committed alert, got %v", alerts)
	}
}

func TestIndicatorsFor(t *testing.T) {
	a := newTestApp(t, testConfig("AAPL"), Options{}, newFakeFetcher())
	ind := a.IndicatorsFor("AAPL")
	if ind.RSI != nil || ind.MACD != nil || ind.Sparkline != "" {
		t.Errorf("expected empty indicators with no history, got %+v", ind)
	}

	for i := 0; i < 30; i++ {
		a.history.Record("AAPL", 100+float64(i))
	}
	ind = a.IndicatorsFor("AAPL")
	if ind.RSI == nil || *ind.RSI != 100 {
		t.Errorf("expected RSI 100 for a rising series, got %v", ind.RSI)
	}
	if ind.MACD == nil || ind.SMA20 == nil || ind.EMA20 == nil {
		t.Errorf("expected full indicator set, got %+v", ind)
	}
	if len([]rune(ind.Sparkline)) != 5 {
		t.Errorf("expected 5-glyph sparkline, got %q", ind.Sparkline)
	}
}
