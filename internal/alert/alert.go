// Package alert implements price alerts: user-defined conditions checked
// against the latest quotes on every refresh.
package alert

import (
	"fmt"
	"sync"

	"github.com/tickertop/tickertop/pkg/models"
)

// EqualTolerance is how close the price must be to the target for an Equal
// condition to trigger.
const EqualTolerance = 0.01

// Condition is the comparison an alert applies to the live price.
type Condition string

const (
	Above Condition = "above"
	Below Condition = "below"
	Equal Condition = "equal"
)

// Conditions lists the selectable conditions in display order.
var Conditions = []Condition{Above, Below, Equal}

// Display returns the human-readable condition label.
func (c Condition) Display() string {
	switch c {
	case Above:
		return "Above"
	case Below:
		return "Below"
	case Equal:
		return "Equal"
	default:
		return string(c)
	}
}

// ParseCondition maps a config string to a Condition.
func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case Above, Below, Equal:
		return Condition(s), nil
	default:
		return "", fmt.Errorf("unknown alert condition %q", s)
	}
}

// Alert is a single price alert attached to a symbol.
type Alert struct {
	Symbol      string    `json:"symbol"`
	Condition   Condition `json:"condition"`
	TargetPrice float64   `json:"target_price"`
}

// Met reports whether the alert fires at the given price.
func (a Alert) Met(price float64) bool {
	switch a.Condition {
	case Above:
		return price >= a.TargetPrice
	case Below:
		return price <= a.TargetPrice
	case Equal:
		diff := price - a.TargetPrice
		if diff < 0 {
			diff = -diff
		}
		return diff < EqualTolerance
	default:
		return false
	}
}

// String renders the alert for display, e.g. "AAPL Above 150.00".
func (a Alert) String() string {
	return fmt.Sprintf("%s %s %.2f", a.Symbol, a.Condition.Display(), a.TargetPrice)
}

// TriggeredAlert is an alert that fired, together with the price that
// satisfied it at evaluation time.
type TriggeredAlert struct {
	Alert
	Price float64 `json:"price"`
}

// String renders the triggered alert with the live price, e.g.
// "AAPL Above 150.00 @ 151.23".
func (t TriggeredAlert) String() string {
	return fmt.Sprintf("%s @ %.2f", t.Alert.String(), t.Price)
}

// Engine holds the configured alerts and the set triggered by the latest
// evaluation. Safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	alerts    []Alert
	triggered []TriggeredAlert
}

// NewEngine returns an engine preloaded with the given alerts.
func NewEngine(alerts []Alert) *Engine {
	e := &Engine{}
	e.alerts = append(e.alerts, alerts...)
	return e
}

// Add appends an alert. Duplicates are allowed; each fires independently.
func (e *Engine) Add(a Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts = append(e.alerts, a)
}

// Remove deletes the idx-th alert for the symbol, counting only that
// symbol's alerts in insertion order. Out-of-range indexes are ignored.
func (e *Engine) Remove(symbol string, idx int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for i, a := range e.alerts {
		if a.Symbol != symbol {
			continue
		}
		if n == idx {
			e.alerts = append(e.alerts[:i], e.alerts[i+1:]...)
			return
		}
		n++
	}
}

// ForSymbol returns the symbol's alerts in insertion order.
func (e *Engine) ForSymbol(symbol string) []Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Alert
	for _, a := range e.alerts {
		if a.Symbol == symbol {
			out = append(out, a)
		}
	}
	return out
}

// All returns a copy of every configured alert.
func (e *Engine) All() []Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Alert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// Evaluate recomputes the triggered set from scratch against the given
// quotes and returns it. An alert whose condition still holds on the next
// pass fires again; alerts for symbols missing from the quotes are skipped.
func (e *Engine) Evaluate(quotes []models.Quote) []TriggeredAlert {
	prices := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		prices[q.Symbol] = q.Price
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.triggered = e.triggered[:0]
	for _, a := range e.alerts {
		price, ok := prices[a.Symbol]
		if !ok {
			continue
		}
		if a.Met(price) {
			e.triggered = append(e.triggered, TriggeredAlert{Alert: a, Price: price})
		}
	}

	out := make([]TriggeredAlert, len(e.triggered))
	copy(out, e.triggered)
	return out
}

// Triggered returns the alerts fired by the most recent evaluation.
func (e *Engine) Triggered() []TriggeredAlert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]TriggeredAlert, len(e.triggered))
	copy(out, e.triggered)
	return out
}
