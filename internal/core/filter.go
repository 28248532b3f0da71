package core

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the records whose key column contains term, ignoring case.
// An empty term returns every record. Records where the column is missing
// never match a non-empty term.
func Filter(records []Record, term, key string) []Record {
	if term == "" {
		return slices.Clone(records)
	}

	// cases.Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		v := r.Get(key)
		if v.Missing {
			continue
		}
		if strings.Contains(fold.String(v.Raw), needle) {
			out = append(out, r)
		}
	}
	return out
}
