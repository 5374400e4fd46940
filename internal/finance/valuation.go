package finance

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ComputeValuation converts an entry and its USD price into USD, local currency and gold grams.
func ComputeValuation(entry AssetEntry, usdPrice float64, rates Rates) (Valuation, error) {
	if rates.GoldUSDPerGram <= 0 {
		return Valuation{}, fmt.Errorf("gold price per gram must be positive, got %v", rates.GoldUSDPerGram)
	}
	usd := decimal.NewFromFloat(entry.Amount).Mul(decimal.NewFromFloat(usdPrice))
	return Valuation{
		Entry:      entry,
		USDPrice:   usdPrice,
		USDValue:   usd,
		LocalValue: usd.Mul(decimal.NewFromFloat(rates.LocalCurrencyPerUSD)),
		GoldGrams:  usd.Div(decimal.NewFromFloat(rates.GoldUSDPerGram)),
	}, nil
}

// Reply templates.
const (
	GreetingReply = "👋 Hi! I’m AssetLog — your total capital OS.\n\n" +
		"Use /add to log an asset.\n" +
		"Example: /add BTC 0.5 2026-01-15"
	UsageReply        = "Usage: /add <SYMBOL> <AMOUNT> <YYYY-MM-DD>"
	InvalidInputReply = "❌ Invalid input. Use: /add BTC 0.5 2026-01-15"
)

// NotFoundReply is sent when the price service has no price for the symbol on that date.
func NotFoundReply(symbol, rawDate string) string {
	return fmt.Sprintf("❌ Price not found for %s on %s", symbol, rawDate)
}

// FormatValuation renders the success reply.
func FormatValuation(v Valuation) string {
	return fmt.Sprintf("✅ Added:\n%s %s bought on %s\n\n= $%s\n= ₽%s\n= %s g gold",
		formatAmount(v.Entry.Amount),
		v.Entry.Symbol,
		v.Entry.RawDate,
		groupThousands(v.USDValue, 2),
		groupThousands(v.LocalValue, 0),
		v.GoldGrams.StringFixed(1),
	)
}

// formatAmount prints the shortest representation with at least one fractional digit: 0.5, 1.0, 2.25.
func formatAmount(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// groupThousands rounds d to places and inserts comma separators: 2250000 -> 2,250,000.
func groupThousands(d decimal.Decimal, places int32) string {
	r := d.Round(places)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	_, frac, _ := strings.Cut(r.StringFixed(places), ".")
	whole := humanize.BigComma(r.BigInt())
	if frac == "" {
		return sign + whole
	}
	return sign + whole + "." + frac
}
