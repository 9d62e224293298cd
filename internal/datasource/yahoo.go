package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/tickertop/tickertop/pkg/models"
)

// Chart API endpoint. One symbol per request.
const defaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// DefaultMaxConcurrency bounds parallel in-flight quote requests.
const DefaultMaxConcurrency = 12

// Client fetches quotes from the Yahoo Finance v8 chart API with an optional
// market-cap enrichment lookup against Financial Modeling Prep.
type Client struct {
	http           *http.Client
	limiter        *RateLimiter
	log            *zap.Logger
	timeout        time.Duration
	maxConcurrency int

	chartURL   string
	profileURL string
	apiKey     string
}

// NewClient creates a quote client with the given per-request timeout.
func NewClient(timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:           &http.Client{Timeout: timeout},
		limiter:        NewRateLimiter(DefaultMaxConcurrency, time.Second),
		log:            log,
		timeout:        timeout,
		maxConcurrency: DefaultMaxConcurrency,
		chartURL:       defaultChartURL,
		profileURL:     defaultProfileURL,
		apiKey:         fmpAPIKey(),
	}
}

// WithMaxConcurrency overrides the concurrency bound. Values below 1 are
// clamped to 1.
func (c *Client) WithMaxConcurrency(max int) *Client {
	if max < 1 {
		max = 1
	}
	c.maxConcurrency = max
	return c
}

// --- Chart API response types ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta chartMeta `json:"meta"`
}

type chartMeta struct {
	Symbol               string  `json:"symbol"`
	ShortName            string  `json:"shortName"`
	LongName             string  `json:"longName"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	ChartPreviousClose   float64 `json:"chartPreviousClose"`
	PreviousClose        float64 `json:"previousClose"`
	RegularMarketOpen    float64 `json:"regularMarketOpen"`
	RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
	RegularMarketVolume  uint64  `json:"regularMarketVolume"`
	Currency             string  `json:"currency"`
	ExchangeName         string  `json:"exchangeName"`
	InstrumentType       string  `json:"instrumentType"`
	RegularMarketTime    int64   `json:"regularMarketTime"`
	MarketState          string  `json:"marketState"`
}

// FetchQuote fetches a single quote from the chart API.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.Quote{}, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Symbol goes in the path and must be escaped to support tickers
	// like ^VIX and EURUSD=X.
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=1d", c.chartURL, url.PathEscape(symbol))
	body, _, err := doGet(reqCtx, c.http, endpoint, nil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return models.Quote{}, fmt.Errorf("read response for %s: %w", symbol, err)
	}

	var resp chartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.Quote{}, fmt.Errorf("parse response for %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return models.Quote{}, fmt.Errorf("provider error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return models.Quote{}, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	return metaToQuote(resp.Chart.Result[0].Meta), nil
}

// metaToQuote maps chart metadata onto a Quote, deriving the change fields
// and defaulting missing optional fields.
func metaToQuote(meta chartMeta) models.Quote {
	prevClose := meta.ChartPreviousClose
	if prevClose == 0 {
		prevClose = meta.PreviousClose
	}

	change, changePct := models.ChangeFromClose(meta.RegularMarketPrice, prevClose)

	name := meta.ShortName
	if name == "" {
		name = meta.LongName
	}
	if name == "" {
		name = "Unknown"
	}

	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	ts := time.Now().UTC()
	if meta.RegularMarketTime > 0 {
		ts = time.Unix(meta.RegularMarketTime, 0).UTC()
	}

	return models.Quote{
		Symbol:        meta.Symbol,
		Name:          name,
		Price:         meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: changePct,
		PreviousClose: prevClose,
		Open:          meta.RegularMarketOpen,
		DayHigh:       meta.RegularMarketDayHigh,
		DayLow:        meta.RegularMarketDayLow,
		YearHigh:      meta.FiftyTwoWeekHigh,
		YearLow:       meta.FiftyTwoWeekLow,
		Volume:        meta.RegularMarketVolume,
		Currency:      currency,
		Exchange:      meta.ExchangeName,
		QuoteType:     models.ParseQuoteType(meta.InstrumentType),
		MarketState:   models.ParseMarketState(meta.MarketState),
		Timestamp:     ts,
	}
}
