package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseNumber reads the leading decimal number of s, the way a form field is
// read: surrounding spaces and thousands separators are ignored and trailing
// units ("150g", "18 pts") are dropped. Anything unparsable yields 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	end := numericPrefixLen(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// IsNumeric reports whether s starts with a parsable number.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	return numericPrefixLen(s) > 0
}

// numericPrefixLen returns the length of the longest prefix of s that forms
// a decimal literal: [+-]digits[.digits][e[+-]digits].
func numericPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// FormatNumber renders v with the shortest representation ("1200", "0.96").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFixed renders v with exactly places decimals.
func FormatFixed(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// FormatThousands renders v with comma thousands separators ("12,000").
func FormatThousands(v float64) string {
	return humanize.Commaf(v)
}

// RoundHalfUp rounds to the nearest integer, halves towards +Inf.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundTo rounds v to places decimals, halves towards +Inf.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}
