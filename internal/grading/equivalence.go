package grading

import (
	"math"
	"strconv"
	"strings"
)

// Tolerance is the absolute difference under which two numeric values are equal.
const Tolerance = 1e-9

// Equivalent reports whether submitted matches reference. Both are trimmed;
// when both parse as a decimal or as "n / d" they are compared numerically,
// otherwise the trimmed strings must be identical (case-sensitive).
func Equivalent(reference, submitted string) bool {
	reference = strings.TrimSpace(reference)
	submitted = strings.TrimSpace(submitted)

	rv, rOK := parseNumeric(reference)
	sv, sOK := parseNumeric(submitted)
	if rOK && sOK {
		return math.Abs(rv-sv) <= Tolerance
	}
	return reference == submitted
}

func parseNumeric(s string) (float64, bool) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, nOK := parseDecimal(num)
		d, dOK := parseDecimal(den)
		if !nOK || !dOK || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	return parseDecimal(s)
}

func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !isPlainDecimal(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isPlainDecimal accepts an optional sign, digits and at most one point.
// Exponents, base prefixes, underscores and named values are rejected.
func isPlainDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	digits, point := 0, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !point:
			point = true
		default:
			return false
		}
	}
	return digits > 0
}
