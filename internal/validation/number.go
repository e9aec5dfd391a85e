package validation

import (
	"math"
	"strconv"
	"strings"
)

// Tolerance is the largest absolute difference between two amounts that is
// still treated as equal.
const Tolerance = 0.01

// epsilon absorbs binary floating point noise so that a difference of
// exactly one cent is not flagged.
const epsilon = 1e-9

// differ reports whether two amounts differ by more than Tolerance.
func differ(a, b float64) bool {
	return math.Abs(a-b) > Tolerance+epsilon
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// parseNumber turns "2,300.00" or " 140.00 " into a float.
// Empty or unparseable input yields nil.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func boolPtr(b bool) *bool { return &b }
