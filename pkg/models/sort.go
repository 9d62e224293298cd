package models

import (
	"sort"
	"strings"
)

// SortField selects the column the quote table is ordered by.
type SortField string

const (
	SortSymbol        SortField = "symbol"
	SortName          SortField = "name"
	SortPrice         SortField = "price"
	SortChange        SortField = "change"
	SortChangePercent SortField = "change_percent"
	SortVolume        SortField = "volume"
	SortMarketCap     SortField = "market_cap"
)

// sortCycle is the fixed order fields are cycled through.
var sortCycle = []SortField{
	SortSymbol,
	SortName,
	SortPrice,
	SortChange,
	SortChangePercent,
	SortVolume,
	SortMarketCap,
}

// Next returns the field that follows in the cycle.
func (f SortField) Next() SortField {
	for i, field := range sortCycle {
		if field == f {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return SortSymbol
}

// Header returns the table column header for the field.
func (f SortField) Header() string {
	switch f {
	case SortSymbol:
		return "SYMBOL"
	case SortName:
		return "NAME"
	case SortPrice:
		return "PRICE"
	case SortChange:
		return "CHANGE"
	case SortChangePercent:
		return "CHG%"
	case SortVolume:
		return "VOLUME"
	case SortMarketCap:
		return "MKT CAP"
	default:
		return "SYMBOL"
	}
}

// ParseSortField resolves a user-supplied field name, falling back to symbol.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortSymbol, SortName, SortPrice, SortChange, SortChangePercent, SortVolume, SortMarketCap:
		return SortField(strings.ToLower(strings.TrimSpace(s)))
	default:
		return SortSymbol
	}
}

// SortDirection orders ascending or descending.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// SortQuotes sorts quotes in place by the given field and direction. The sort
// is stable; float comparisons treat incomparable values (NaN) as equal, and
// an unknown market cap orders below every known one.
func SortQuotes(quotes []Quote, field SortField, direction SortDirection) {
	less := func(a, b Quote) bool {
		switch field {
		case SortName:
			return a.Name < b.Name
		case SortPrice:
			return floatLess(a.Price, b.Price)
		case SortChange:
			return floatLess(a.Change, b.Change)
		case SortChangePercent:
			return floatLess(a.ChangePercent, b.ChangePercent)
		case SortVolume:
			return a.Volume < b.Volume
		case SortMarketCap:
			return a.MarketCap < b.MarketCap
		default:
			return a.Symbol < b.Symbol
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if direction == Descending {
			return less(quotes[j], quotes[i])
		}
		return less(quotes[i], quotes[j])
	})
}

// floatLess is a NaN-safe comparison: NaN compares equal to everything, so it
// neither panics nor destabilizes the sort.
func floatLess(a, b float64) bool {
	if a != a || b != b {
		return false
	}
	return a < b
}
