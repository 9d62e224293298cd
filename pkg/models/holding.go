package models

// Holding is a portfolio position loaded from configuration. Quantities may
// be fractional (crypto) and are read-only during a session.
type Holding struct {
	Symbol    string  `json:"symbol"`
	Quantity  float64 `json:"quantity"`
	CostBasis float64 `json:"cost_basis"`
}

// TotalCost returns the total amount paid for the position.
func (h Holding) TotalCost() float64 {
	return h.Quantity * h.CostBasis
}

// CurrentValue returns the position value at the given price.
func (h Holding) CurrentValue(price float64) float64 {
	return h.Quantity * price
}

// ProfitLoss returns the unrealized profit or loss at the given price.
func (h Holding) ProfitLoss(price float64) float64 {
	return h.CurrentValue(price) - h.TotalCost()
}

// ProfitLossPercent returns the unrealized profit or loss as a percentage of
// total cost, or 0 when the total cost is zero.
func (h Holding) ProfitLossPercent(price float64) float64 {
	cost := h.TotalCost()
	if cost == 0 {
		return 0
	}
	return h.ProfitLoss(price) / cost * 100
}
