package app

import (
	"github.com/tickertop/tickertop/internal/analysis/technical"
	"github.com/tickertop/tickertop/pkg/models"
)

// Indicators bundles the technical values computed from a symbol's price
// history. Pointers are nil when the history is too short.
type Indicators struct {
	RSI       *float64              `json:"rsi,omitempty"`
	SMA20     *float64              `json:"sma20,omitempty"`
	EMA20     *float64              `json:"ema20,omitempty"`
	MACD      *technical.MACDResult `json:"macd,omitempty"`
	Sparkline string                `json:"sparkline,omitempty"`
	Points    int                   `json:"points"`
}

// SymbolDetail is the full per-symbol view served by the API: the latest
// quote, the position if held, and the indicator set.
type SymbolDetail struct {
	Quote      models.Quote    `json:"quote"`
	Holding    *models.Holding `json:"holding,omitempty"`
	Indicators Indicators      `json:"indicators"`
}

// IndicatorsFor computes the indicator set from the symbol's recorded
// history.
func (a *App) IndicatorsFor(symbol string) Indicators {
	prices := a.history.Prices(symbol)
	ind := Indicators{
		Sparkline: technical.Sparkline(prices),
		Points:    len(prices),
	}
	if v, ok := technical.RSI(prices); ok {
		ind.RSI = &v
	}
	if v, ok := technical.SMA(prices, 20); ok {
		ind.SMA20 = &v
	}
	if v, ok := technical.EMA(prices, 20); ok {
		ind.EMA20 = &v
	}
	if v, ok := technical.MACD(prices); ok {
		ind.MACD = &v
	}
	return ind
}

// Detail returns the per-symbol view, or false when the symbol is not in
// the current table.
func (a *App) Detail(symbol string) (SymbolDetail, bool) {
	a.mu.RLock()
	var quote models.Quote
	found := false
	for _, q := range a.quotes {
		if q.Symbol == symbol {
			quote = q
			found = true
			break
		}
	}
	a.mu.RUnlock()
	if !found {
		return SymbolDetail{}, false
	}

	d := SymbolDetail{Quote: quote, Indicators: a.IndicatorsFor(symbol)}
	if h, ok := a.Holding(symbol); ok {
		d.Holding = &h
	}
	return d, true
}

// Sparkline returns the sparkline string for a symbol's recent prices.
func (a *App) Sparkline(symbol string) string {
	return technical.Sparkline(a.history.Prices(symbol))
}
