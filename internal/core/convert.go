package core

// convert.go provides cell coercion for stats data.
//
// Conversion never fails loudly. A cell that is not a plain decimal number
// becomes NaN and travels through sort and classify as such:
//   - "" and whitespace-only cells are NaN, not zero
//   - currency symbols, thousands separators and units are NaN
//   - hex, "Inf", "Infinity" and "NaN" spellings are NaN
//   - a number followed by text ("12abc") is NaN, not 12

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a plain decimal number.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToNumber converts cell text to a float64. Returns NaN for empty or
// non-numeric input.
func ToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range exponents land here; ParseFloat still returns ±Inf.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// coerce builds the Value for one cell of a column declared as t.
func coerce(raw string, present bool, t FieldType) Value {
	if !present {
		return Value{Type: t, Missing: true, Num: math.NaN()}
	}
	return Value{Type: t, Raw: raw, Num: ToNumber(raw)}
}

// FloatPtr returns nil for NaN, otherwise a pointer to f.
// JSON cannot carry NaN, so snapshots use this for numeric cells.
func FloatPtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
