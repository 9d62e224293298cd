// Package history keeps a bounded rolling price series per symbol, feeding
// the indicator and sparkline calculations.
package history

import "sync"

// MaxPoints caps the number of retained prices per symbol. When full, the
// oldest point is dropped before the new one is appended.
const MaxPoints = 100

// Tracker stores recent prices for each tracked symbol. Safe for concurrent
// use.
type Tracker struct {
	mu     sync.RWMutex
	series map[string][]float64
}

// NewTracker returns an empty price history tracker.
func NewTracker() *Tracker {
	return &Tracker{series: make(map[string][]float64)}
}

// Record appends a price to the symbol's series, evicting the oldest point
// once the series holds MaxPoints entries.
func (t *Tracker) Record(symbol string, price float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.series[symbol]
	if len(s) >= MaxPoints {
		s = s[1:]
	}
	t.series[symbol] = append(s, price)
}

// Prices returns a copy of the symbol's series, oldest first. Unknown symbols
// return nil.
func (t *Tracker) Prices(symbol string) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.series[symbol]
	if len(s) == 0 {
		return nil
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

// Len reports how many points are stored for the symbol.
func (t *Tracker) Len(symbol string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.series[symbol])
}

// Reset discards the series for the symbol.
func (t *Tracker) Reset(symbol string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.series, symbol)
}
