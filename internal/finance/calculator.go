package finance

import (
	"context"
	"errors"
	"fmt"
)

// Calculator turns /add arguments into a reply. It holds no per-invocation
// state and is safe for concurrent use.
type Calculator struct {
	prices PriceSource
	rates  Rates
}

// NewCalculator wires a price source and conversion rates.
func NewCalculator(prices PriceSource, rates Rates) *Calculator {
	return &Calculator{prices: prices, rates: rates}
}

// Value parses args, looks up the USD price and computes the valuation.
// Errors wrap ErrUsage, ErrPriceNotFound or ErrInvalidInput.
func (c *Calculator) Value(ctx context.Context, args []string) (Valuation, error) {
	entry, err := ParseAddArgs(args)
	if err != nil {
		return Valuation{}, err
	}

	price, err := c.prices.HistoricalUSDPrice(ctx, entry.LookupSymbol(), entry.PurchaseDate)
	if err != nil {
		if errors.Is(err, ErrPriceNotFound) {
			return Valuation{Entry: entry}, err
		}
		return Valuation{Entry: entry}, fmt.Errorf("%w: lookup %s on %s: %v", ErrInvalidInput, entry.Symbol, entry.RawDate, err)
	}

	v, err := ComputeValuation(entry, price, c.rates)
	if err != nil {
		return Valuation{Entry: entry}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return v, nil
}

// AddReply handles one /add invocation and always yields exactly one reply.
// The returned error is the classified cause and is nil on success; it is
// meant for logging, the reply text already describes it to the user.
func (c *Calculator) AddReply(ctx context.Context, args []string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply = InvalidInputReply
			err = fmt.Errorf("%w: panic: %v", ErrInvalidInput, r)
		}
	}()

	v, err := c.Value(ctx, args)
	switch {
	case err == nil:
		return FormatValuation(v), nil
	case errors.Is(err, ErrUsage):
		return UsageReply, err
	case errors.Is(err, ErrPriceNotFound):
		return NotFoundReply(v.Entry.Symbol, v.Entry.RawDate), err
	default:
		return InvalidInputReply, err
	}
}
