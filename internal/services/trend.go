package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pengeluaran/internal/core"
	applog "pengeluaran/internal/log"
)

// Granularity is the bucket size of a trend series.
type Granularity string

const (
	Daily   Granularity = "day"
	Monthly Granularity = "month"
)

// Bucket is one point of the income/expense chart.
type Bucket struct {
	Start   int64 // start of the day or month, ms
	Label   string
	Income  float64
	Expense float64
}

// Trend is a chart series for a period.
type Trend struct {
	Period      core.Period
	Window      core.Window
	Granularity Granularity
	Buckets     []Bucket
}

// GranularityFor picks daily buckets for the short periods and monthly
// buckets otherwise.
func GranularityFor(p core.Period) Granularity {
	switch p {
	case core.Last7Days, core.Last30Days:
		return Daily
	default:
		return Monthly
	}
}

// Trend buckets the period's transactions by day or month in the service
// location. For AllTime the series starts at the oldest transaction rather
// than at the epoch.
func (s *LedgerService) Trend(ctx context.Context, period core.Period) (Trend, error) {
	txs, w, err := s.List(ctx, period)
	if err != nil {
		return Trend{}, fmt.Errorf("trend: %w", err)
	}

	gran := GranularityFor(period)
	loc := s.dates.Location()

	from := w.Start
	if period == core.AllTime || !period.IsValid() {
		from = w.End
		if len(txs) > 0 {
			from = txs[len(txs)-1].CreatedAt
		}
	}

	// Buckets are walked as calendar dates so a DST change at midnight
	// cannot shift a bucket off its day.
	last := keyFor(core.FromMillis(w.End).In(loc), gran).date()
	var buckets []Bucket
	index := make(map[bucketKey]int)
	for day := keyFor(core.FromMillis(from).In(loc), gran).date(); !day.After(last); day = next(day, gran) {
		k := keyFor(day, gran)
		index[k] = len(buckets)
		buckets = append(buckets, Bucket{Start: k.start(loc).UnixMilli(), Label: label(day, gran)})
	}

	income := make([]decimal.Decimal, len(buckets))
	expense := make([]decimal.Decimal, len(buckets))
	for _, tx := range txs {
		i, ok := index[keyFor(core.FromMillis(tx.CreatedAt).In(loc), gran)]
		if !ok {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Kind == core.Income {
			income[i] = income[i].Add(amount)
		} else {
			expense[i] = expense[i].Add(amount)
		}
	}
	for i := range buckets {
		buckets[i].Income = income[i].InexactFloat64()
		buckets[i].Expense = expense[i].InexactFloat64()
	}

	s.logger.DebugContext(ctx, "Built trend series",
		applog.NewFields().
			WithWindow(period.String(), w.Start, w.End).
			WithCount(len(buckets)).
			WithOperation(applog.OpTrend).
			ToSlice()...)

	return Trend{Period: period, Window: w, Granularity: gran, Buckets: buckets}, nil
}

// bucketKey is the calendar date of a bucket; day is 1 for monthly buckets.
type bucketKey struct {
	year  int
	month time.Month
	day   int
}

func keyFor(t time.Time, gran Granularity) bucketKey {
	y, m, d := t.Date()
	if gran == Monthly {
		d = 1
	}
	return bucketKey{year: y, month: m, day: d}
}

// date returns the key as UTC midnight, which steps without DST gaps.
func (k bucketKey) date() time.Time {
	return time.Date(k.year, k.month, k.day, 0, 0, 0, 0, time.UTC)
}

// start returns the first instant of the key's day in loc. When midnight
// falls in a DST gap the day starts at the first wall-clock hour that exists.
func (k bucketKey) start(loc *time.Location) time.Time {
	for h := 0; h < 24; h++ {
		t := time.Date(k.year, k.month, k.day, h, 0, 0, 0, loc)
		if y, m, d := t.Date(); y == k.year && m == k.month && d == k.day {
			return t
		}
	}
	return time.Date(k.year, k.month, k.day, 0, 0, 0, 0, loc)
}

var labels = core.NewDateFormatter(time.UTC)

func label(day time.Time, gran Granularity) string {
	if gran == Daily {
		return labels.FormatDay(day)
	}
	return labels.FormatMonth(day)
}

func next(day time.Time, gran Granularity) time.Time {
	if gran == Daily {
		return day.AddDate(0, 0, 1)
	}
	return day.AddDate(0, 1, 0)
}
