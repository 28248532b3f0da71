package core

import "errors"

var (
	// ErrEmptyInput is returned by Parse when the text has no header line.
	ErrEmptyInput = errors.New("empty input: no header line")

	// ErrDuplicateKey is returned when a schema declares the same key twice.
	ErrDuplicateKey = errors.New("duplicate column key")

	// ErrUnknownColumn is returned when a schema or style refers to a key
	// that the schema does not define.
	ErrUnknownColumn = errors.New("column not found")

	// ErrPresetNotFound is returned when no preset is registered under a key.
	ErrPresetNotFound = errors.New("preset not found")
)
