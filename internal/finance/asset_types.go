package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetEntry is one parsed /add command. It lives for a single invocation.
type AssetEntry struct {
	Symbol       string // upper-case, as displayed
	Amount       float64
	PurchaseDate time.Time
	RawDate      string // date exactly as the user typed it
}

// LookupSymbol is the key used against the price service.
func (e AssetEntry) LookupSymbol() string {
	return strings.ToLower(e.Symbol)
}

// Rates holds the fixed conversion constants applied to a USD value.
type Rates struct {
	LocalCurrencyPerUSD float64 // RUB received for 1 USD
	GoldUSDPerGram      float64 // USD price of 1 gram of gold
}

// DefaultRates are the conversion constants the bot ships with.
var DefaultRates = Rates{
	LocalCurrencyPerUSD: 90,
	GoldUSDPerGram:      70,
}

// Valuation is the result of a successful /add.
type Valuation struct {
	Entry      AssetEntry
	USDPrice   float64
	USDValue   decimal.Decimal
	LocalValue decimal.Decimal
	GoldGrams  decimal.Decimal
}
