package accrual

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompletedMonths(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{"same day", date(2025, time.November, 8), date(2025, time.November, 8), "0"},
		{"seven days", date(2025, time.November, 8), date(2025, time.November, 15), "0.5"},
		{"fifteen days", date(2025, time.November, 8), date(2025, time.November, 23), "0.5"},
		{"sixteen days", date(2025, time.November, 8), date(2025, time.November, 24), "1"},
		{"partial next month", date(2025, time.November, 8), date(2025, time.December, 5), "0.5"},
		{"exactly one month", date(2025, time.November, 8), date(2025, time.December, 8), "1"},
		{"one and a half", date(2025, time.November, 8), date(2025, time.December, 15), "1.5"},
		{"two months", date(2025, time.November, 8), date(2025, time.December, 24), "2"},
		{"year boundary", date(2025, time.November, 8), date(2026, time.January, 8), "2"},
		{"end before start", date(2025, time.November, 8), date(2025, time.October, 1), "0"},
		{"end before start same month", date(2025, time.November, 8), date(2025, time.November, 3), "0"},
		{"end before start prior year", date(2025, time.November, 8), date(2024, time.December, 20), "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CompletedMonths(tc.start, tc.end)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s want %s", got, tc.want)
		})
	}
}

func TestWholeMonthsBetween(t *testing.T) {
	assert.Equal(t, 0, WholeMonthsBetween(date(2025, time.January, 31), date(2025, time.January, 1)))
	assert.Equal(t, 1, WholeMonthsBetween(date(2025, time.January, 31), date(2025, time.February, 1)))
	assert.Equal(t, 12, WholeMonthsBetween(date(2024, time.June, 15), date(2025, time.June, 1)))
	assert.Equal(t, -1, WholeMonthsBetween(date(2025, time.February, 1), date(2025, time.January, 31)))
}

func TestParseDateFormats(t *testing.T) {
	inputs := []string{
		"2025-11-08",
		"2025-11-08T10:30:00",
		"2025-11-08T10:30:00.123456",
		"2025-11-08T10:30:00Z",
		"2025-11-08T10:30:00+05:30",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parsed, err := ParseDate(input)
			require.NoError(t, err)
			assert.Equal(t, 2025, parsed.Year())
			assert.Equal(t, time.November, parsed.Month())
			assert.Equal(t, 8, parsed.Day())
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("08/11/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}
