package metrics

import (
	"errors"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// Period is a sales total and order count.
type Period struct {
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

// Dashboard holds the headline numbers.
type Dashboard struct {
	Today         Period `json:"today"`
	ThisMonth     Period `json:"thisMonth"`
	NewOrderCount int    `json:"newOrderCount"`
}

// Range selects the sales window.
type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

var ErrInvalidRange = errors.New("invalid sales range")

// ParseRange accepts today, week or month.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case RangeToday, RangeWeek, RangeMonth:
		return r, nil
	default:
		return "", ErrInvalidRange
	}
}

// Point is one chart bar.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Sales summarises a range.
type Sales struct {
	Range        Range           `json:"range"`
	TotalSales   decimal.Decimal `json:"totalSales"`
	OrderCount   int             `json:"orderCount"`
	AverageValue decimal.Decimal `json:"averageValue"`
	Chart        []Point         `json:"chart"`
	// Recent holds the range's sales, newest first.
	Recent []order.Order `json:"recent"`
}
