// Package accrual holds the calendar arithmetic behind interest billing.
//
// Two different month clocks exist on purpose. CompletedMonths is the
// fractional half-month billing clock; WholeMonthsBetween is the coarse
// whole-calendar-month clock used only for overdue classification. They
// must not be unified: one prices interest, the other triggers alerts.
package accrual

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	half = decimal.NewFromFloat(0.5)
	one  = decimal.NewFromInt(1)
)

// CompletedMonths returns the interest-bearing months elapsed between start
// and end, in half-month increments relative to the start day's anniversary:
//
//	Nov 8 -> Nov 15 = 0.5  (7 days)
//	Nov 8 -> Nov 24 = 1.0  (16 days)
//	Nov 8 -> Dec  8 = 1.0  (exactly one complete month)
//	Nov 8 -> Dec 15 = 1.5
//	Nov 8 -> Dec 24 = 2.0
//
// Partial months count 0.5 for 1-15 elapsed days and 1.0 for 16 or more.
// end before start yields zero. The result is rounded to one decimal place.
func CompletedMonths(start, end time.Time) decimal.Decimal {
	if end.Before(start) {
		return decimal.Zero
	}

	rawMonths := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())

	if start.Year() == end.Year() && start.Month() == end.Month() {
		return dayFraction(daysBetween(start, end)).Round(1)
	}

	var fraction decimal.Decimal
	if end.Day() < start.Day() {
		// The current anniversary month is not complete yet.
		rawMonths--
		fraction = dayFraction(end.Day())
	} else {
		fraction = dayFraction(end.Day() - start.Day())
	}

	if rawMonths < 0 {
		rawMonths = 0
	}
	return decimal.NewFromInt(int64(rawMonths)).Add(fraction).Round(1)
}

// WholeMonthsBetween returns the whole-calendar-month difference between two
// dates, ignoring the day of month entirely. A ticket started on the last day
// of January is one month old on the first day of February.
func WholeMonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

func dayFraction(days int) decimal.Decimal {
	switch {
	case days <= 0:
		return decimal.Zero
	case days <= 15:
		return half
	default:
		return one
	}
}

func daysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the ISO-8601 date strings the ledger exchanges. Both plain
// dates (2025-11-08) and full date-times, with or without a zone designator
// or trailing Z, parse to the same calendar instant for accrual purposes.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
