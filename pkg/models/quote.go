// Package models defines the core data structures used throughout tickertop.
package models

import "time"

// QuoteType classifies the kind of instrument a quote refers to.
type QuoteType string

const (
	TypeEquity   QuoteType = "EQUITY"
	TypeCrypto   QuoteType = "CRYPTOCURRENCY"
	TypeETF      QuoteType = "ETF"
	TypeFund     QuoteType = "MUTUALFUND"
	TypeIndex    QuoteType = "INDEX"
	TypeCurrency QuoteType = "CURRENCY"
	TypeFuture   QuoteType = "FUTURE"
	TypeOption   QuoteType = "OPTION"
)

// Display returns the short human-readable label for the instrument type.
func (t QuoteType) Display() string {
	switch t {
	case TypeEquity:
		return "Stock"
	case TypeCrypto:
		return "Crypto"
	case TypeETF:
		return "ETF"
	case TypeFund:
		return "Fund"
	case TypeIndex:
		return "Index"
	case TypeCurrency:
		return "Forex"
	case TypeFuture:
		return "Future"
	case TypeOption:
		return "Option"
	default:
		return "Stock"
	}
}

// ParseQuoteType maps a provider instrument-type string to a QuoteType.
// Unrecognized values default to equity.
func ParseQuoteType(s string) QuoteType {
	switch s {
	case "EQUITY", "CRYPTOCURRENCY", "ETF", "MUTUALFUND", "INDEX", "CURRENCY", "FUTURE", "OPTION":
		return QuoteType(s)
	default:
		return TypeEquity
	}
}

// MarketState is the trading session state reported by the provider.
type MarketState string

const (
	MarketPre     MarketState = "PRE"
	MarketRegular MarketState = "REGULAR"
	MarketPost    MarketState = "POST"
	MarketClosed  MarketState = "CLOSED"
)

// Display returns the short label shown in the session column.
func (m MarketState) Display() string {
	switch m {
	case MarketPre:
		return "Pre"
	case MarketRegular:
		return "Open"
	case MarketPost:
		return "Post"
	default:
		return "Closed"
	}
}

// ParseMarketState maps a provider market-state string to a MarketState.
// Unrecognized values default to closed.
func ParseMarketState(s string) MarketState {
	switch s {
	case "PRE", "REGULAR", "POST", "CLOSED":
		return MarketState(s)
	default:
		return MarketClosed
	}
}

// Quote is a point-in-time snapshot of one instrument. A Quote is built once
// from a successful fetch and never mutated afterwards; a fresh fetch replaces
// the previous Quote for its symbol.
type Quote struct {
	Symbol        string      `json:"symbol"`
	Name          string      `json:"name"`
	Price         float64     `json:"price"`
	Change        float64     `json:"change"`
	ChangePercent float64     `json:"change_percent"`
	PreviousClose float64     `json:"previous_close"`
	Open          float64     `json:"open"`
	DayHigh       float64     `json:"day_high"`
	DayLow        float64     `json:"day_low"`
	YearHigh      float64     `json:"year_high"`
	YearLow       float64     `json:"year_low"`
	Volume        uint64      `json:"volume"`
	AvgVolume     uint64      `json:"avg_volume"`
	MarketCap     uint64      `json:"market_cap"` // 0 means unknown
	Currency      string      `json:"currency"`
	Exchange      string      `json:"exchange"`
	QuoteType     QuoteType   `json:"quote_type"`
	MarketState   MarketState `json:"market_state"`
	Timestamp     time.Time   `json:"timestamp"`
}

// NewQuote fills in the derived change fields from price and previous close.
// Both change values are zero when the previous close is not positive.
func NewQuote(symbol string, price, previousClose float64) Quote {
	q := Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: previousClose,
		Currency:      "USD",
		QuoteType:     TypeEquity,
		MarketState:   MarketClosed,
		Timestamp:     time.Now().UTC(),
	}
	q.Change, q.ChangePercent = ChangeFromClose(price, previousClose)
	return q
}

// ChangeFromClose computes absolute and percentage change versus the previous
// close. Returns zeros when previousClose <= 0 to avoid dividing by zero.
func ChangeFromClose(price, previousClose float64) (change, changePercent float64) {
	if previousClose <= 0 {
		return 0, 0
	}
	change = price - previousClose
	changePercent = change / previousClose * 100
	return change, changePercent
}

// FetchFailure records why a single symbol could not be fetched.
type FetchFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// BatchResult is the outcome of one fetch cycle. Individual symbol errors are
// collected in Failures; they never fail the batch as a whole.
type BatchResult struct {
	Quotes   []Quote        `json:"quotes"`
	Failures []FetchFailure `json:"failures"`
}

// AllFailed reports whether the batch produced no quotes despite having
// symbols to fetch.
func (b BatchResult) AllFailed() bool {
	return len(b.Quotes) == 0 && len(b.Failures) > 0
}
