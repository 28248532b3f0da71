package core

import (
	"cmp"
	"slices"
)

// Sort returns a copy of records ordered by key. Records with equal keys keep
// their input order.
//
// Comparison follows the column's declared type. Number columns compare with
// < and >, so a NaN cell compares equal to everything; where NaN rows end up
// depends on their neighbours and is not otherwise defined. FieldAuto columns
// compare numerically when both cells are numeric, as text when neither is,
// and as equal otherwise. Missing cells compare equal to everything.
func Sort(records []Record, key string, dir SortDirection) []Record {
	out := slices.Clone(records)
	if key == "" {
		return out
	}

	slices.SortStableFunc(out, func(a, b Record) int {
		c := compareValues(a.Get(key), b.Get(key))
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

func compareValues(a, b Value) int {
	if a.Missing || b.Missing {
		return 0
	}

	t := a.Type
	if b.Type != t {
		t = FieldAuto
	}

	switch t {
	case FieldNumber:
		return compareFloat(a.Num, b.Num)
	case FieldString:
		return cmp.Compare(a.Raw, b.Raw)
	default:
		an, bn := a.Numeric(), b.Numeric()
		switch {
		case an && bn:
			return compareFloat(a.Num, b.Num)
		case !an && !bn:
			return cmp.Compare(a.Raw, b.Raw)
		default:
			return 0
		}
	}
}

// compareFloat is a plain three-way compare. Unlike cmp.Compare it does not
// order NaN; NaN is neither less nor greater than anything.
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ToggleSort returns the state after a header click on key. Clicking the
// current ascending column flips it to descending; any other click sorts
// ascending.
func ToggleSort(prev SortState, key string) SortState {
	if prev.Key == key && prev.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}
