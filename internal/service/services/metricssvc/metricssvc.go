package metricssvc

import (
	"fmt"
	"slices"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/clock"
	"github.com/corray333/backend-labs/dukan/internal/service/models/metrics"
	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/shopspring/decimal"
)

const (
	weekDays     = 7
	daysPerChunk = 7
	maxWeeks     = 5
)

type orderSource interface {
	Orders() []order.Order
	NewOrderCount() int
}

// MetricsService derives dashboard and sales figures from the order list.
// Orders that are NEW or REJECTED are not sales.
type MetricsService struct {
	orders orderSource
	clock  clock.Clock
	loc    *time.Location
}

// option is a function that configures the MetricsService.
type option func(*MetricsService)

// MustNewMetricsService creates a new MetricsService.
func MustNewMetricsService(opts ...option) *MetricsService {
	s := &MetricsService{
		clock: clock.Real(),
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orders == nil {
		panic("metrics service requires an order source")
	}

	return s
}

// WithOrderSource sets where orders are read from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderSource(orders orderSource) option {
	return func(s *MetricsService) {
		s.orders = orders
	}
}

// WithClock sets the clock "today" is taken from.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(c clock.Clock) option {
	return func(s *MetricsService) {
		s.clock = c
	}
}

// WithLocation sets the time zone days are cut in.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithLocation(loc *time.Location) option {
	return func(s *MetricsService) {
		s.loc = loc
	}
}

// Dashboard returns today's and this month's sales.
func (s *MetricsService) Dashboard() metrics.Dashboard {
	now := s.clock.Now().In(s.loc)
	var d metrics.Dashboard
	d.Today.Sales = decimal.Zero
	d.ThisMonth.Sales = decimal.Zero

	for _, o := range s.sales() {
		ts := o.Timestamp.In(s.loc)
		if sameMonth(ts, now) {
			d.ThisMonth.Sales = d.ThisMonth.Sales.Add(o.Total)
			d.ThisMonth.Orders++
			if sameDay(ts, now) {
				d.Today.Sales = d.Today.Sales.Add(o.Total)
				d.Today.Orders++
			}
		}
	}
	d.NewOrderCount = s.orders.NewOrderCount()

	return d
}

// Sales summarises the range and buckets it for the chart.
func (s *MetricsService) Sales(r metrics.Range) (metrics.Sales, error) {
	now := s.clock.Now().In(s.loc)
	today := midnight(now)

	var (
		inRange func(time.Time) bool
		chart   []metrics.Point
		bucket  func(time.Time) int
	)
	switch r {
	case metrics.RangeToday:
		inRange = func(ts time.Time) bool { return sameDay(ts, now) }
		chart = points("Morning", "Afternoon", "Evening", "Night")
		bucket = dayPart
	case metrics.RangeWeek:
		from := today.AddDate(0, 0, -(weekDays - 1))
		to := today.AddDate(0, 0, 1)
		inRange = func(ts time.Time) bool { return !ts.Before(from) && ts.Before(to) }
		labels := make([]string, weekDays)
		for i := range labels {
			labels[i] = from.AddDate(0, 0, i).Weekday().String()[:3]
		}
		chart = points(labels...)
		bucket = func(ts time.Time) int {
			return weekDays - 1 - daysBetween(midnight(ts), today)
		}
	case metrics.RangeMonth:
		inRange = func(ts time.Time) bool { return sameMonth(ts, now) }
		lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, s.loc).Day()
		weeks := min((lastDay+daysPerChunk-1)/daysPerChunk, maxWeeks)
		labels := make([]string, weeks)
		for i := range labels {
			labels[i] = fmt.Sprintf("W%d", i+1)
		}
		chart = points(labels...)
		bucket = func(ts time.Time) int { return (ts.Day() - 1) / daysPerChunk }
	default:
		return metrics.Sales{}, metrics.ErrInvalidRange
	}

	out := metrics.Sales{
		Range:        r,
		TotalSales:   decimal.Zero,
		AverageValue: decimal.Zero,
		Chart:        chart,
		Recent:       []order.Order{},
	}
	for _, o := range s.sales() {
		ts := o.Timestamp.In(s.loc)
		if !inRange(ts) {
			continue
		}

		out.TotalSales = out.TotalSales.Add(o.Total)
		out.OrderCount++
		out.Recent = append(out.Recent, o)
		if i := bucket(ts); i >= 0 && i < len(chart) {
			chart[i].Value = chart[i].Value.Add(o.Total)
		}
	}
	if out.OrderCount > 0 {
		out.AverageValue = out.TotalSales.Div(decimal.NewFromInt(int64(out.OrderCount))).Round(2)
	}
	slices.SortStableFunc(out.Recent, func(a, b order.Order) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return out, nil
}

func (s *MetricsService) sales() []order.Order {
	orders := s.orders.Orders()
	out := orders[:0:0]
	for _, o := range orders {
		if o.Status != order.StatusNew && o.Status != order.StatusRejected {
			out = append(out, o)
		}
	}

	return out
}

// dayPart maps the hour to Morning 5-12, Afternoon 12-17, Evening 17-21 and
// Night otherwise.
func dayPart(ts time.Time) int {
	switch h := ts.Hour(); {
	case h >= 5 && h < 12:
		return 0
	case h >= 12 && h < 17:
		return 1
	case h >= 17 && h < 21:
		return 2
	default:
		return 3
	}
}

func points(labels ...string) []metrics.Point {
	out := make([]metrics.Point, len(labels))
	for i, l := range labels {
		out[i] = metrics.Point{Label: l, Value: decimal.Zero}
	}

	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days, so DST shifts do not skew it.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	return int(b.Sub(a).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
