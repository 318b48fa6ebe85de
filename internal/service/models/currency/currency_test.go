package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"₹96", "96"},
		{"₹ 1,250.50", "1250.5"},
		{"68", "68"},
		{"Rs.28", "28"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, in := range []string{"", "₹", "free", "₹-5"} {
		_, err := ParsePrice(in)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹96", FormatPrice(decimal.NewFromInt(96)))
	assert.Equal(t, "₹12.5", FormatPrice(decimal.RequireFromString("12.50")))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("INR")
	require.NoError(t, err)
	assert.Equal(t, CurrencyINR, c)

	_, err = ParseCurrency("RUB")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}
