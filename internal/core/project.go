package core

import "math"

// Project converts raw rows into Records using schema. One Record is returned
// per row, in input order. Numeric columns that fail to convert hold NaN;
// columns absent from a row are marked missing.
func Project(rows []RawRow, schema Schema) []Record {
	keys := schema.Keys()
	out := make([]Record, len(rows))

	for i, raw := range rows {
		values := make(map[string]Value, len(schema))
		for _, f := range schema {
			if f.Spacer {
				values[f.Key] = Value{Type: FieldString, Num: math.NaN()}
				continue
			}
			cell, ok := raw[f.SourceHeader()]
			values[f.Key] = coerce(cell, ok, f.Type)
		}
		out[i] = Record{keys: keys, values: values}
	}

	return out
}
