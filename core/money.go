package core

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Money amounts are handled as float64 throughout: they enter the API as decimal
// strings, are parsed exactly once here and rounded to the cent. Sub-cent
// precision loss on very large sums is an accepted limitation.

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a non-negative decimal amount submitted as a string.
func ParseAmount(s string) (float64, error) {
	s = CleanString(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	amt, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(amt) || math.IsInf(amt, 0) {
		return 0, ErrInvalidAmount
	}
	if amt < 0 {
		return 0, ErrInvalidAmount
	}
	return math.Round(amt*100) / 100, nil
}

// RoundPct returns part/total as a percentage rounded to the nearest integer.
// A zero total yields 0 rather than a division by zero.
func RoundPct(part, total float64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(part / total * 100))
}

// CappedPct is RoundPct capped at 100. Dashboards report goal progress capped;
// the top-performer ranking reports it uncapped. Callers must pick explicitly.
func CappedPct(part, total float64) int {
	if pct := RoundPct(part, total); pct < 100 {
		return pct
	}
	return 100
}
