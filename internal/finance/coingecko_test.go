package finance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan15 = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func newTestCoinGecko(t *testing.T, h http.HandlerFunc) *CoinGecko {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCoinGecko(CoinGeckoConfig{BaseURL: srv.URL}, srv.Client())
}

func TestCoinGecko_HistoricalUSDPrice_Success(t *testing.T) {
	t.Parallel()

	cg := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/coins/btc/history", r.URL.Path)
		assert.Equal(t, "15 Jan 2026", r.URL.Query().Get("date"))
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "bitcoin",
			"symbol": "btc",
			"market_data": {"current_price": {"eur": 46000.5, "usd": 50000}}
		}`))
	})

	price, err := cg.HistoricalUSDPrice(context.Background(), "BTC", jan15)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, price)
}

func TestCoinGecko_HistoryURL(t *testing.T) {
	t.Parallel()

	cg := NewCoinGecko(CoinGeckoConfig{BaseURL: "https://api.example.com/v3/"}, http.DefaultClient)

	assert.Equal(t,
		"https://api.example.com/v3/coins/eth/history?date=5+Mar+2024",
		cg.historyURL("ETH", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t,
		"https://api.example.com/v3/coins/a%2Fb/history?date=15+Jan+2026",
		cg.historyURL("a/b", jan15))
}

func TestNewCoinGecko_DefaultBaseURL(t *testing.T) {
	t.Parallel()

	cg := NewCoinGecko(CoinGeckoConfig{}, http.DefaultClient)
	assert.Equal(t, DefaultCoinGeckoBaseURL, cg.cfg.BaseURL)
}

func TestCoinGecko_HistoricalUSDPrice_SendsAPIKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"market_data":{"current_price":{"usd":1.5}}}`))
	}))
	defer srv.Close()

	cg := NewCoinGecko(CoinGeckoConfig{BaseURL: srv.URL, APIKey: "demo-key"}, srv.Client())
	price, err := cg.HistoricalUSDPrice(context.Background(), "usdt", jan15)
	require.NoError(t, err)
	assert.Equal(t, 1.5, price)
}

func TestCoinGecko_HistoricalUSDPrice_NonOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"not found", http.StatusNotFound},
		{"too many requests", http.StatusTooManyRequests},
		{"unauthorized", http.StatusUnauthorized},
		{"internal server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cg := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := cg.HistoricalUSDPrice(context.Background(), "eth", jan15)
			assert.ErrorIs(t, err, ErrPriceNotFound)
		})
	}
}

func TestCoinGecko_HistoricalUSDPrice_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid json`},
		{"no market data", `{"id":"bitcoin","symbol":"btc"}`},
		{"no usd price", `{"market_data":{"current_price":{"eur":1}}}`},
		{"string price", `{"market_data":{"current_price":{"usd":"50000"}}}`},
		{"null price", `{"market_data":{"current_price":{"usd":null}}}`},
		{"zero price", `{"market_data":{"current_price":{"usd":0}}}`},
		{"negative price", `{"market_data":{"current_price":{"usd":-3}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cg := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := cg.HistoricalUSDPrice(context.Background(), "btc", jan15)
			assert.ErrorIs(t, err, ErrMalformedQuote)
			assert.NotErrorIs(t, err, ErrPriceNotFound)
		})
	}
}

func TestCoinGecko_HistoricalUSDPrice_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := srv.Client()
	client.Timeout = 20 * time.Millisecond
	cg := NewCoinGecko(CoinGeckoConfig{BaseURL: srv.URL}, client)

	_, err := cg.HistoricalUSDPrice(context.Background(), "btc", jan15)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPriceNotFound)
}

func TestCoinGecko_HistoricalUSDPrice_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cg := NewCoinGecko(CoinGeckoConfig{BaseURL: srv.URL}, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := cg.HistoricalUSDPrice(ctx, "btc", jan15)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
