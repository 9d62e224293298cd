package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
)

// Financial Modeling Prep company profile endpoint, used only to backfill
// market capitalization when the chart API omits it.
const defaultProfileURL = "https://financialmodelingprep.com/api/v3/profile"

// enrichTimeout caps the secondary lookup so a slow profile endpoint can
// never hold up the primary batch.
const enrichTimeout = 5 * time.Second

// fmpAPIKey returns the configured FMP key, falling back to the public
// demo tier.
func fmpAPIKey() string {
	if key := os.Getenv("FMP_API_KEY"); key != "" {
		return key
	}
	return "demo"
}

type fmpProfile struct {
	Symbol    string `json:"symbol"`
	MarketCap uint64 `json:"mktCap"`
}

// fetchMarketCap looks up market capitalization for a symbol. It is strictly
// best-effort: any failure or timeout yields (0, false) and is never surfaced
// beyond a debug log.
func (c *Client) fetchMarketCap(ctx context.Context, symbol string) (uint64, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s?apikey=%s", c.profileURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))
	body, _, err := doGet(reqCtx, c.http, endpoint, nil)
	if err != nil {
		c.log.Debug("market cap lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return 0, false
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return 0, false
	}

	var profiles []fmpProfile
	if err := json.Unmarshal(data, &profiles); err != nil || len(profiles) == 0 {
		return 0, false
	}
	if profiles[0].MarketCap == 0 {
		return 0, false
	}
	return profiles[0].MarketCap, true
}
