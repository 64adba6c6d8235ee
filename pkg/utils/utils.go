package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var maxRate = decimal.NewFromInt(100)

// ParseAsOf parses an optional YYYY-MM-DD query value. Empty means today in UTC.
func ParseAsOf(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StartOfDay(now), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// StartOfDay truncates t to midnight UTC of its calendar day
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseRate parses a monthly penalty percentage in [0, 100].
func ParseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	if !ValidRate(rate) {
		return decimal.Zero, fmt.Errorf("rate %s must be between 0 and 100", rate)
	}
	return rate, nil
}

// ValidRate reports whether rate is a percentage in [0, 100]
func ValidRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(maxRate)
}

// DaysOverdue counts whole days from trigger to asOf; zero when not past it.
func DaysOverdue(trigger, asOf time.Time) int {
	days := int(StartOfDay(asOf).Sub(StartOfDay(trigger)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
