// Package core holds the ledger domain: transactions, categories, reporting
// periods and the display formatters for money and dates.
package core

import (
	"strings"
	"time"
)

const dayMillis int64 = 24 * 60 * 60 * 1000

const (
	Last7Days    Period = "7d"
	Last30Days   Period = "30d"
	Last6Months  Period = "6m"
	Last12Months Period = "12m"
	AllTime      Period = "all"
)

type (
	// Period selects a reporting window relative to "now".
	Period string

	// Window is a millisecond range with Start <= End.
	Window struct {
		Start int64
		End   int64
	}

	// Clock returns the current time. Services take a Clock instead of
	// calling time.Now so that windows can be computed deterministically.
	Clock func() time.Time
)

// SystemClock reads the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Periods lists the selectors in the order the UI offers them.
func Periods() []Period {
	return []Period{Last7Days, Last30Days, Last6Months, Last12Months, AllTime}
}

// IsValid reports whether p is a known selector.
func (p Period) IsValid() bool {
	switch p {
	case Last7Days, Last30Days, Last6Months, Last12Months, AllTime:
		return true
	default:
		return false
	}
}

// ParsePeriod returns the selector named by s. Unknown input maps to AllTime.
func ParsePeriod(s string) Period {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return AllTime
	}
	return p
}

func (p Period) String() string { return string(p) }

// Contains reports whether ms falls in [Start, End).
func (w Window) Contains(ms int64) bool {
	return ms >= w.Start && ms < w.End
}

// Duration returns the span of the window.
func (w Window) Duration() time.Duration {
	return time.Duration(w.End-w.Start) * time.Millisecond
}

// ResolvePeriod maps p to a concrete window ending at now. Month based
// periods step back in calendar months in loc (UTC when nil), clamping the
// day to the last day of the target month. Unknown selectors resolve like
// AllTime. A negative now is clamped to the epoch.
func ResolvePeriod(p Period, now int64, loc *time.Location) Window {
	if now < 0 {
		now = 0
	}
	switch p {
	case Last7Days:
		return Window{Start: now - 7*dayMillis, End: now}
	case Last30Days:
		return Window{Start: now - 30*dayMillis, End: now}
	case Last6Months:
		return Window{Start: monthsBefore(now, 6, loc), End: now}
	case Last12Months:
		return Window{Start: monthsBefore(now, 12, loc), End: now}
	default:
		return Window{Start: 0, End: now}
	}
}

// ResolvePeriodAt is ResolvePeriod for a clock reading.
func ResolvePeriodAt(p Period, clock Clock, loc *time.Location) Window {
	return ResolvePeriod(p, Millis(clock()), loc)
}

func monthsBefore(now int64, months int, loc *time.Location) int64 {
	if loc == nil {
		loc = time.UTC
	}
	t := time.UnixMilli(now).In(loc)
	y, m, d := t.Date()

	target := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, loc)
	if last := daysIn(target.Year(), target.Month(), loc); d > last {
		d = last
	}

	start := time.Date(target.Year(), target.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	return start.UnixMilli()
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
