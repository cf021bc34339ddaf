package core

import (
	"strconv"
	"strings"
	"time"
)

// InvalidDate is rendered for input that cannot be read as a date.
const InvalidDate = "Invalid Date"

var indonesianMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateFormatter renders dates as "day month year" with Indonesian month
// abbreviations, e.g. "16 Okt 2026".
type DateFormatter struct {
	loc *time.Location
}

// NewDateFormatter returns a formatter displaying dates in loc (UTC when nil).
func NewDateFormatter(loc *time.Location) DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return DateFormatter{loc: loc}
}

// Format renders t.
func (f DateFormatter) Format(t time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	t = t.In(f.location())
	return strconv.Itoa(t.Day()) + " " + indonesianMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// FormatMonth renders the month and year of t, e.g. "Okt 2026".
func (f DateFormatter) FormatMonth(t time.Time) string {
	t = t.In(f.location())
	return indonesianMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// FormatDay renders the day and month of t, e.g. "16 Okt".
func (f DateFormatter) FormatDay(t time.Time) string {
	t = t.In(f.location())
	return strconv.Itoa(t.Day()) + " " + indonesianMonths[t.Month()-1]
}

// Location returns the display location.
func (f DateFormatter) Location() *time.Location {
	return f.location()
}

// FormatMillis renders a millisecond timestamp.
func (f DateFormatter) FormatMillis(ms int64) string {
	return f.Format(time.UnixMilli(ms))
}

// FormatString parses s as an ISO date, date-time or millisecond literal
// and renders it. Unreadable input yields InvalidDate.
func (f DateFormatter) FormatString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return InvalidDate
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return f.FormatMillis(ms)
	}
	for _, layout := range dateLayouts {
		// Strings without an offset are read in UTC.
		if t, err := time.Parse(layout, s); err == nil {
			return f.Format(t)
		}
	}
	return InvalidDate
}

func (f DateFormatter) location() *time.Location {
	if f.loc == nil {
		return time.UTC
	}
	return f.loc
}

// FormatDate renders a millisecond timestamp in UTC.
func FormatDate(ms int64) string {
	return NewDateFormatter(time.UTC).FormatMillis(ms)
}

// FormatDateString renders a date string in UTC.
func FormatDateString(s string) string {
	return NewDateFormatter(time.UTC).FormatString(s)
}
