package finance

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultCoinGeckoBaseURL is the public CoinGecko v3 API.
	DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

	// historyDateLayout renders dates as "15 Jan 2026".
	historyDateLayout = "2 Jan 2006"

	// usdPricePath is where the history endpoint reports the USD price.
	usdPricePath = "market_data.current_price.usd"

	maxHistoryBody = 1 << 20
)

// PriceSource looks up the USD price of an asset on a given day.
type PriceSource interface {
	HistoricalUSDPrice(ctx context.Context, symbol string, date time.Time) (float64, error)
}

// CoinGeckoConfig configures the CoinGecko history client.
type CoinGeckoConfig struct {
	BaseURL string // e.g. "https://api.coingecko.com/api/v3"
	APIKey  string // optional demo key
}

// CoinGecko reads historical prices from /coins/{id}/history.
type CoinGecko struct {
	cfg    CoinGeckoConfig
	client *http.Client
}

var _ PriceSource = (*CoinGecko)(nil)

// NewCoinGecko returns a client sharing the given HTTP client. The client's
// timeout bounds every lookup.
func NewCoinGecko(cfg CoinGeckoConfig, client *http.Client) *CoinGecko {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCoinGeckoBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &CoinGecko{cfg: cfg, client: client}
}

// historyURL builds {base}/coins/{symbol}/history?date={D Mon YYYY}.
func (c *CoinGecko) historyURL(symbol string, date time.Time) string {
	q := url.Values{}
	q.Set("date", date.Format(historyDateLayout))
	return fmt.Sprintf("%s/coins/%s/history?%s", c.cfg.BaseURL, url.PathEscape(strings.ToLower(symbol)), q.Encode())
}

// HistoricalUSDPrice fetches the USD price of symbol on date. A non-200
// answer yields ErrPriceNotFound; a body without a positive numeric
// market_data.current_price.usd yields ErrMalformedQuote.
func (c *CoinGecko) HistoricalUSDPrice(ctx context.Context, symbol string, date time.Time) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.historyURL(symbol, date), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: coingecko http %d for %s", ErrPriceNotFound, res.StatusCode, symbol)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxHistoryBody))
	if err != nil {
		return 0, fmt.Errorf("failed to read coingecko response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("%w: body is not json", ErrMalformedQuote)
	}

	v := gjson.GetBytes(body, usdPricePath)
	if !v.Exists() || v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s missing", ErrMalformedQuote, usdPricePath)
	}
	price := v.Float()
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: %s = %v", ErrMalformedQuote, usdPricePath, v.Raw)
	}
	return price, nil
}
