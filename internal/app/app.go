// Package app holds the dashboard state and the refresh cycle that drives
// it: which symbols are tracked, the latest quotes, portfolio aggregates,
// alerts, and the UI-facing selection and sort state.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tickertop/tickertop/internal/alert"
	"github.com/tickertop/tickertop/internal/cache"
	"github.com/tickertop/tickertop/internal/config"
	"github.com/tickertop/tickertop/internal/history"
	"github.com/tickertop/tickertop/internal/scheduler"
	"github.com/tickertop/tickertop/pkg/models"
	"github.com/tickertop/tickertop/pkg/utils"
)

// maxErrorLen caps the stored error message so a huge provider response
// never floods the status line.
const maxErrorLen = 100

// QuoteFetcher is the slice of the data source the app depends on.
type QuoteFetcher interface {
	GetQuotes(ctx context.Context, symbols []string) models.BatchResult
}

// Options carries the command-line overrides applied on top of the config.
type Options struct {
	Symbols       []string // overrides the watchlist when non-empty
	SecureMode    bool
	ShowHoldings  bool
	MaxIterations int // 0 means run forever
	AudioAlerts   bool
}

// App is the central state controller. All exported methods are safe for
// concurrent use; the HTTP server reads state while the refresh loop
// writes it.
type App struct {
	mu sync.RWMutex

	cfg  *config.Config
	opts Options
	log  *zap.Logger

	fetcher  QuoteFetcher
	cache    *cache.QuoteCache
	history  *history.Tracker
	sched    *scheduler.Scheduler
	alerts   *alert.Engine
	notifier *alert.Notifier
	setup    *alert.Setup

	symbols    []string // active watchlist, expanded
	holdings   map[string]models.Holding
	groupNames []string
	groupIdx   int // -1 means all symbols

	quotes    []models.Quote
	triggered []alert.TriggeredAlert
	lastError string
	iteration int
	selected  int

	sortField     models.SortField
	sortDirection models.SortDirection
	showHoldings  bool
}

// New builds the controller from config plus command-line overrides.
func New(cfg *config.Config, opts Options, fetcher QuoteFetcher, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	raw := opts.Symbols
	if len(raw) == 0 {
		raw = cfg.AllSymbols()
	}
	symbols := utils.ExpandSymbols(raw)
	for _, sym := range symbols {
		if !utils.ValidateSymbol(sym) {
			return nil, fmt.Errorf("invalid symbol %q", sym)
		}
	}

	holdings := make(map[string]models.Holding)
	for _, h := range cfg.GetHoldings() {
		holdings[h.Symbol] = h
	}

	alerts, err := cfg.GetAlerts()
	if err != nil {
		return nil, err
	}

	groupNames := make([]string, 0, len(cfg.Groups))
	for name := range cfg.Groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	sortField := models.ParseSortField(cfg.Display.SortBy)
	direction := models.Ascending
	if cfg.Display.SortDescending {
		direction = models.Descending
	}

	return &App{
		cfg:           cfg,
		opts:          opts,
		log:           log,
		fetcher:       fetcher,
		cache:         cache.New(cache.DefaultTTL),
		history:       history.NewTracker(),
		sched:         scheduler.New(cfg.RefreshInterval()),
		alerts:        alert.NewEngine(alerts),
		notifier:      alert.NewNotifier(opts.AudioAlerts),
		setup:         alert.NewSetup(),
		symbols:       symbols,
		holdings:      holdings,
		groupNames:    groupNames,
		groupIdx:      -1,
		sortField:     sortField,
		sortDirection: direction,
		showHoldings:  cfg.Display.ShowHoldings || opts.ShowHoldings,
	}, nil
}

// ActiveSymbols returns the symbols of the current group, or the full
// watchlist when no group is selected.
func (a *App) ActiveSymbols() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeSymbolsLocked()
}

func (a *App) activeSymbolsLocked() []string {
	if a.groupIdx < 0 || a.groupIdx >= len(a.groupNames) {
		out := make([]string, len(a.symbols))
		copy(out, a.symbols)
		return out
	}
	return utils.ExpandSymbols(a.cfg.Groups[a.groupNames[a.groupIdx]])
}

// NeedsRefresh reports whether the scheduler considers a refresh due.
func (a *App) NeedsRefresh() bool { return a.sched.NeedsRefresh() }

// ForceRefresh makes the next cycle run immediately.
func (a *App) ForceRefresh() { a.sched.ForceRefresh() }

// SetRefreshInterval changes the refresh cadence at runtime.
func (a *App) SetRefreshInterval(d time.Duration) { a.sched.SetInterval(d) }

// RefreshQuotes runs one refresh cycle: fetch every active symbol, record
// the new prices, then fold the results into the table. Symbols whose fetch
// failed keep their last good quote, served from the cache or from the
// previous table. A cycle where every fetch fails keeps the previous quotes
// and surfaces a warning; it never kills the app.
func (a *App) RefreshQuotes(ctx context.Context) {
	symbols := a.ActiveSymbols()
	a.sched.MarkAttempt()
	if len(symbols) == 0 {
		return
	}

	batch := a.fetcher.GetQuotes(ctx, symbols)

	if batch.AllFailed() {
		reason := failureSummary(batch.Failures)
		a.log.Warn("refresh cycle failed for all symbols", zap.String("reason", reason))
		a.mu.Lock()
		a.lastError = reason
		a.mu.Unlock()
		return
	}

	for _, q := range batch.Quotes {
		a.history.Record(q.Symbol, q.Price)
	}
	a.cache.PutAll(batch.Quotes)

	quotes := batch.Quotes
	if len(batch.Failures) > 0 {
		quotes = append(quotes, a.fallbackQuotes(batch.Failures)...)
	}

	a.mu.Lock()
	a.quotes = quotes
	models.SortQuotes(a.quotes, a.sortField, a.sortDirection)
	a.iteration++
	a.clampSelectionLocked()

	if len(batch.Failures) > 0 {
		a.lastError = failureSummary(batch.Failures)
		a.log.Warn("refresh cycle had failures",
			zap.Int("ok", len(batch.Quotes)),
			zap.Int("failed", len(batch.Failures)))
	} else {
		a.lastError = ""
	}
	a.mu.Unlock()

	triggered := a.alerts.Evaluate(quotes)
	a.mu.Lock()
	a.triggered = triggered
	a.mu.Unlock()
	a.notifier.Notify(len(triggered))

	a.sched.MarkRefresh()
	a.log.Debug("refresh cycle complete",
		zap.Int("quotes", len(quotes)),
		zap.Int("fetched", len(batch.Quotes)),
		zap.Int("alerts", len(triggered)))
}

// fallbackQuotes fills in failed symbols with their last good quote, from
// the cache first and the previously displayed table when the cache entry
// has expired.
func (a *App) fallbackQuotes(failures []models.FetchFailure) []models.Quote {
	a.mu.RLock()
	prior := make(map[string]models.Quote, len(a.quotes))
	for _, q := range a.quotes {
		prior[q.Symbol] = q
	}
	a.mu.RUnlock()

	var out []models.Quote
	for _, f := range failures {
		if q, ok := a.cache.Get(f.Symbol); ok {
			out = append(out, q)
			continue
		}
		if q, ok := prior[f.Symbol]; ok {
			out = append(out, q)
		}
	}
	return out
}

// failureSummary renders failures as a single status-line message, capped
// at maxErrorLen characters.
func failureSummary(failures []models.FetchFailure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Symbol, f.Reason))
	}
	msg := strings.Join(parts, "; ")
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen] + "…"
	}
	return msg
}

// Quotes returns a copy of the current sorted quote table.
func (a *App) Quotes() []models.Quote {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.Quote, len(a.quotes))
	copy(out, a.quotes)
	return out
}

// LastError returns the warning from the most recent cycle, empty when the
// cycle was clean.
func (a *App) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastError
}

// Iteration returns how many refresh cycles have completed.
func (a *App) Iteration() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.iteration
}

// ShouldQuit reports whether the configured iteration cap was reached.
func (a *App) ShouldQuit() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.opts.MaxIterations > 0 && a.iteration >= a.opts.MaxIterations
}

// SecureMode reports whether state-mutating interactions are disabled.
func (a *App) SecureMode() bool { return a.opts.SecureMode }

// LastRefresh returns the completion time of the last successful cycle.
func (a *App) LastRefresh() time.Time { return a.sched.LastRefresh() }

// TriggeredAlerts returns the alerts fired by the latest evaluation, each
// carrying the price it fired at.
func (a *App) TriggeredAlerts() []alert.TriggeredAlert {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]alert.TriggeredAlert, len(a.triggered))
	copy(out, a.triggered)
	return out
}

// Prices returns the recorded price history for a symbol, oldest first.
func (a *App) Prices(symbol string) []float64 {
	return a.history.Prices(symbol)
}

// Holding returns the portfolio position for the symbol, if any.
func (a *App) Holding(symbol string) (models.Holding, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	h, ok := a.holdings[symbol]
	return h, ok
}

// ShowHoldings reports whether the portfolio view is enabled.
func (a *App) ShowHoldings() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.showHoldings
}

// ToggleHoldings flips the portfolio view. Ignored in secure mode.
func (a *App) ToggleHoldings() {
	if a.opts.SecureMode {
		return
	}
	a.mu.Lock()
	a.showHoldings = !a.showHoldings
	a.mu.Unlock()
}
