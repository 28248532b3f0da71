package core

import (
	"math"
	"slices"
)

// FieldType represents the declared type of a column.
type FieldType int

const (
	// FieldAuto is numeric when the cell converts to a number, text otherwise.
	// It is the type of every column in a header-driven schema.
	FieldAuto FieldType = iota
	FieldString
	FieldNumber
)

// String returns the name used in preset files and JSON.
func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldNumber:
		return "number"
	default:
		return "auto"
	}
}

// ParseFieldType converts a preset type name to a FieldType.
// Unknown names map to FieldAuto.
func ParseFieldType(s string) FieldType {
	switch s {
	case "string", "text":
		return FieldString
	case "number", "numeric":
		return FieldNumber
	default:
		return FieldAuto
	}
}

// RawRow maps header names to trimmed cell text for one data line.
// A header with no corresponding field is absent from the map.
type RawRow map[string]string

// Table is the result of parsing CSV text.
type Table struct {
	Headers []string // Header names in file order, trimmed
	Rows    []RawRow
}

// Value is a single coerced cell.
type Value struct {
	Type    FieldType // Declared type of the column
	Raw     string    // Cell text as it appeared in the file
	Num     float64   // Numeric conversion of Raw; NaN when not numeric
	Missing bool      // Column was absent from the source row
}

// Numeric reports whether the value has a usable numeric conversion.
func (v Value) Numeric() bool {
	return !v.Missing && !math.IsNaN(v.Num)
}

// Text returns the display text of the value. Missing values render empty.
func (v Value) Text() string {
	if v.Missing {
		return ""
	}
	return v.Raw
}

// Record is a typed row. Key order follows the schema that produced it.
// Records are never modified after projection.
type Record struct {
	keys   []string // shared with the schema, read-only
	values map[string]Value
}

// Get returns the value for key. Unknown keys return a missing value.
func (r Record) Get(key string) Value {
	v, ok := r.values[key]
	if !ok {
		return Value{Missing: true, Num: math.NaN()}
	}
	return v
}

// Keys returns the record's column keys in display order.
func (r Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of columns in the record.
func (r Record) Len() int {
	return len(r.keys)
}

// SortDirection is the order applied by the sorter.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// ParseSortDirection accepts "desc"/"descending"; anything else is ascending.
func ParseSortDirection(s string) SortDirection {
	switch s {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// Short returns the query-string form ("asc" or "desc").
func (d SortDirection) Short() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the current sort column and direction.
// An empty Key means the rows are in file order.
type SortState struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// TierRule assigns Label to values at or above Threshold.
type TierRule struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Label     string  `json:"label" yaml:"label"`
}

// TierRules is an ordered rule set with a default for values below every threshold.
type TierRules struct {
	Rules   []TierRule
	Default string
}

// ColumnStyle attaches tier classification and an optional gauge to a column.
type ColumnStyle struct {
	Key   string
	Tiers TierRules
	Gauge *Gauge // nil when the column has no bar
}
