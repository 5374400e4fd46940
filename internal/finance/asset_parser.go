package finance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted purchase date format.
const DateLayout = "2006-01-02"

// ParseAddArgs parses the arguments of an /add command.
// Format: /add BTC 0.5 2026-01-15
func ParseAddArgs(args []string) (AssetEntry, error) {
	if len(args) != 3 {
		return AssetEntry{}, fmt.Errorf("%w: got %d, want 3", ErrUsage, len(args))
	}

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))
	if symbol == "" {
		return AssetEntry{}, fmt.Errorf("%w: empty symbol", ErrInvalidInput)
	}

	amountStr := strings.TrimSpace(args[1])
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return AssetEntry{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidInput, amountStr, err)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return AssetEntry{}, fmt.Errorf("%w: amount %q must be a positive number", ErrInvalidInput, amountStr)
	}

	rawDate := strings.TrimSpace(args[2])
	date, err := time.Parse(DateLayout, rawDate)
	if err != nil {
		return AssetEntry{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, rawDate, err)
	}

	return AssetEntry{
		Symbol:       symbol,
		Amount:       amount,
		PurchaseDate: date,
		RawDate:      rawDate,
	}, nil
}
