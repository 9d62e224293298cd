// Package utils provides symbol normalization helpers shared by the fetcher,
// the application state, and the CLI.
package utils

import "strings"

// MaxSymbolLength bounds accepted ticker symbols. Long enough for pairs like
// EURUSD=X and MATIC-USD, short enough to reject junk input.
const MaxSymbolLength = 12

// Crypto shortcuts expanded to their USD trading pair.
var cryptoShortcuts = map[string]string{
	"BTC":   "BTC-USD",
	"ETH":   "ETH-USD",
	"SOL":   "SOL-USD",
	"DOGE":  "DOGE-USD",
	"XRP":   "XRP-USD",
	"ADA":   "ADA-USD",
	"DOT":   "DOT-USD",
	"MATIC": "MATIC-USD",
	"LINK":  "LINK-USD",
	"UNI":   "UNI-USD",
	"AVAX":  "AVAX-USD",
	"ATOM":  "ATOM-USD",
	"LTC":   "LTC-USD",
}

// ValidateSymbol reports whether a symbol is safe to place in a request URL:
// non-empty, at most MaxSymbolLength characters, and restricted to
// alphanumerics plus '-', '.', '^' and '='.
func ValidateSymbol(symbol string) bool {
	if symbol == "" || len(symbol) > MaxSymbolLength {
		return false
	}
	for _, c := range symbol {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '.' || c == '^' || c == '=':
		default:
			return false
		}
	}
	return true
}

// ExpandSymbol rewrites crypto shorthand to the full USD pair. "BTC.X" becomes
// "BTC-USD", and well-known short all-caps tickers like "ETH" are looked up in
// the shortcut table. Anything else is returned unchanged.
func ExpandSymbol(symbol string) string {
	if base, ok := strings.CutSuffix(symbol, ".X"); ok {
		return base + "-USD"
	}

	if len(symbol) <= 5 && isUpperAlpha(symbol) {
		if expanded, ok := cryptoShortcuts[symbol]; ok {
			return expanded
		}
	}

	return symbol
}

func isUpperAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// ExpandSymbols expands every symbol and removes duplicates while preserving
// first-seen order.
func ExpandSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		expanded := ExpandSymbol(strings.TrimSpace(s))
		if expanded == "" || seen[expanded] {
			continue
		}
		seen[expanded] = true
		out = append(out, expanded)
	}
	return out
}
