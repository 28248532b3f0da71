// Package core provides the tabular-data engine behind every leaderboard.
//
// This package has no UI or transport dependencies. The web server, the CLI
// and the exporters all drive it the same way.
//
// # Pipeline
//
// Raw text flows through a fixed sequence of pure functions:
//
//	text --Parse--> Table --Project(schema)--> []Record --Sort--> --Filter--> rows
//
// [View] wraps the last two steps together with tier classification and
// keeps the sort state and search term. The sort always runs before the
// filter.
//
// # Schemas
//
// A [Schema] declares, per column, its source header, its key, its type and
// optionally a position override:
//
//	s := core.IdentitySchema(table.Headers).
//	    Relocate("MSR", "MIN").
//	    WithSpacer("gap", "", "MSR")
//
// Columns of type [FieldAuto] decide per cell whether to compare as numbers
// or text. Columns declared [FieldNumber] always compare as numbers and hold
// NaN where a cell does not parse.
//
// # Presets
//
// Each leaderboard is a [Preset] registered at init time with [Register]:
// the data source, schema tweaks, the search column and the tier rules of
// its styled columns. Package presets registers the built-in boards from
// embedded YAML.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Malformed cells are never errors; only structural problems (an empty file,
// a broken schema, a failed fetch) are.
package core
