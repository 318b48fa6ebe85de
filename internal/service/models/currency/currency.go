package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyINR Currency = "INR"
)

var (
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidPrice    = errors.New("invalid price")
)

func (c Currency) String() string {
	return string(c)
}

// Symbol returns the sign prices are displayed with.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyINR:
		return "₹"
	default:
		return ""
	}
}

func ParseCurrency(s string) (Currency, error) {
	switch s {
	case CurrencyINR.String():
		return CurrencyINR, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// ParsePrice parses a display price such as "₹1,250.50". The currency sign,
// grouping commas and surrounding spaces are ignored.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, CurrencyINR.Symbol())
	cleaned = strings.TrimPrefix(cleaned, "Rs.")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, s)
	}

	return d, nil
}

// FormatPrice renders an amount the way prices are stored on products.
func FormatPrice(d decimal.Decimal) string {
	return CurrencyINR.Symbol() + d.String()
}
