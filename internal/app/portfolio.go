package app

import "github.com/tickertop/tickertop/pkg/models"

// Portfolio aggregates the configured holdings against the latest quotes.
type Portfolio struct {
	TotalValue    float64 `json:"total_value"`
	TotalCost     float64 `json:"total_cost"`
	ProfitLoss    float64 `json:"profit_loss"`
	ProfitLossPct float64 `json:"profit_loss_percent"`
	DayChange     float64 `json:"day_change"`
	Positions     int     `json:"positions"`
}

// Portfolio computes the aggregate position values. Holdings without a
// live quote contribute their cost but no market value or day change.
func (a *App) Portfolio() Portfolio {
	a.mu.RLock()
	defer a.mu.RUnlock()

	prices := make(map[string]models.Quote, len(a.quotes))
	for _, q := range a.quotes {
		prices[q.Symbol] = q
	}

	var p Portfolio
	for sym, h := range a.holdings {
		p.Positions++
		p.TotalCost += h.TotalCost()
		if q, ok := prices[sym]; ok {
			p.TotalValue += h.CurrentValue(q.Price)
			p.DayChange += h.Quantity * q.Change
		}
	}
	p.ProfitLoss = p.TotalValue - p.TotalCost
	if p.TotalCost > 0 {
		p.ProfitLossPct = p.ProfitLoss / p.TotalCost * 100
	}
	return p
}
