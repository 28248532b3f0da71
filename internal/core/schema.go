package core

import (
	"fmt"
	"slices"
)

// FieldSpec defines how one column of a Record is produced.
type FieldSpec struct {
	Source       string    // Header name in the CSV; defaults to Key (ignored for spacers)
	Key          string    // Record key, unique within the schema
	Label        string    // Header text; defaults to Source, then Key
	Type         FieldType // Declared type
	InsertBefore string    // Place this column immediately before another key
	Spacer       bool      // Blank column with no source data
	Unnamed      bool      // Reads the column whose header is blank
}

// SourceHeader returns the CSV header the column reads from. An empty Source
// reads the header named like the key.
func (f FieldSpec) SourceHeader() string {
	if f.Source != "" || f.Unnamed {
		return f.Source
	}
	return f.Key
}

// HeaderLabel returns the text shown in the column header.
func (f FieldSpec) HeaderLabel() string {
	if f.Label != "" || f.Spacer || f.Unnamed {
		return f.Label
	}
	if f.Source != "" {
		return f.Source
	}
	return f.Key
}

// Schema is an ordered list of field specs.
type Schema []FieldSpec

// IdentitySchema maps every header to a FieldAuto column of the same name.
// Repeated headers keep their first position. A blank header gets the key
// "column:N", N being its 1-based position, and keeps its blank label.
func IdentitySchema(headers []string) Schema {
	seen := make(map[string]bool, len(headers))
	s := make(Schema, 0, len(headers))
	for i, h := range headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		if h == "" {
			s = append(s, FieldSpec{Key: fmt.Sprintf("column:%d", i+1), Type: FieldAuto, Unnamed: true})
			continue
		}
		s = append(s, FieldSpec{Source: h, Key: h, Type: FieldAuto})
	}
	return s
}

// Field returns the FieldSpec for key.
func (s Schema) Field(key string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Has reports whether the schema defines key.
func (s Schema) Has(key string) bool {
	_, ok := s.Field(key)
	return ok
}

// Relocate returns a copy of s with key moved immediately before another key.
// Unknown keys leave the schema unchanged.
func (s Schema) Relocate(key, before string) Schema {
	out := slices.Clone(s)
	for i := range out {
		if out[i].Key == key {
			out[i].InsertBefore = before
		}
	}
	return out
}

// WithSpacer returns a copy of s with a blank column placed before another key.
func (s Schema) WithSpacer(key, label, before string) Schema {
	out := slices.Clone(s)
	return append(out, FieldSpec{Key: key, Label: label, Type: FieldString, Spacer: true, InsertBefore: before})
}

// WithTypes returns a copy of s with declared types overridden by key.
func (s Schema) WithTypes(types map[string]FieldType) Schema {
	out := slices.Clone(s)
	for i := range out {
		if t, ok := types[out[i].Key]; ok {
			out[i].Type = t
		}
	}
	return out
}

// Validate checks key uniqueness and InsertBefore targets. The empty key is
// reserved for "no sort" and is rejected.
func (s Schema) Validate() error {
	keys := make(map[string]bool, len(s))
	for _, f := range s {
		if f.Key == "" {
			return fmt.Errorf("%w: empty column key", ErrUnknownColumn)
		}
		if keys[f.Key] {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, f.Key)
		}
		keys[f.Key] = true
	}
	for _, f := range s {
		if f.InsertBefore == "" {
			continue
		}
		if f.InsertBefore == f.Key || !keys[f.InsertBefore] {
			return fmt.Errorf("%w: %q cannot be placed before %q", ErrUnknownColumn, f.Key, f.InsertBefore)
		}
	}
	return nil
}

// Keys returns the record key order the schema produces.
//
// Columns without InsertBefore keep schema order. Relocated columns are then
// placed in front of their target; a relocation whose target is itself
// relocated waits until the target has been placed. Anything that still has
// no valid target is appended.
func (s Schema) Keys() []string {
	defined := make(map[string]bool, len(s))
	for _, f := range s {
		defined[f.Key] = true
	}

	keys := make([]string, 0, len(s))
	var pending []FieldSpec
	for _, f := range s {
		if f.InsertBefore != "" && f.InsertBefore != f.Key && defined[f.InsertBefore] {
			pending = append(pending, f)
			continue
		}
		keys = append(keys, f.Key)
	}

	for len(pending) > 0 {
		var next []FieldSpec
		for _, f := range pending {
			i := slices.Index(keys, f.InsertBefore)
			if i < 0 {
				next = append(next, f)
				continue
			}
			keys = slices.Insert(keys, i, f.Key)
		}
		if len(next) == len(pending) {
			for _, f := range next {
				keys = append(keys, f.Key)
			}
			break
		}
		pending = next
	}

	return keys
}

// Headers returns the header labels in display order.
func (s Schema) Headers() []string {
	keys := s.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		f, _ := s.Field(k)
		out[i] = f.HeaderLabel()
	}
	return out
}
