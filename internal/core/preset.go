package core

import "fmt"

// Relocation moves one column in front of another, optionally with a blank
// spacer column ahead of it. It only applies when both columns exist.
type Relocation struct {
	Key         string
	Before      string
	Spacer      bool
	SpacerKey   string // Defaults to "spacer:<Key>"
	SpacerLabel string
}

// Preset describes one leaderboard: where its data lives and how it is shown.
type Preset struct {
	Key         string
	Title       string
	Description string
	Source      string // Path or URL handed to the Fetcher

	// Schema is used as-is when set. Otherwise the schema is derived from the
	// file's header line, with Types and Relocations applied.
	Schema      Schema
	Types       map[string]FieldType
	Relocations []Relocation

	SearchKey   string
	Columns     []ColumnStyle
	DefaultSort SortState
}

// ResolveSchema returns the schema for a file with the given headers.
func (p Preset) ResolveSchema(headers []string) (Schema, error) {
	s := p.Schema
	if len(s) == 0 {
		s = IdentitySchema(headers)
		if len(p.Types) > 0 {
			s = s.WithTypes(p.Types)
		}
		for _, rl := range p.Relocations {
			if !s.Has(rl.Key) || !s.Has(rl.Before) {
				continue
			}
			s = s.Relocate(rl.Key, rl.Before)
			if rl.Spacer {
				key := rl.SpacerKey
				if key == "" {
					key = "spacer:" + rl.Key
				}
				s = s.WithSpacer(key, rl.SpacerLabel, rl.Key)
			}
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", p.Key, err)
	}
	return s, nil
}

// ViewConfig returns the view configuration for schema. Styles and search
// settings naming columns the file does not have are dropped.
func (p Preset) ViewConfig(schema Schema) ViewConfig {
	cfg := ViewConfig{Schema: schema}
	if schema.Has(p.SearchKey) {
		cfg.SearchKey = p.SearchKey
	}
	for _, c := range p.Columns {
		if schema.Has(c.Key) {
			cfg.Columns = append(cfg.Columns, c)
		}
	}
	return cfg
}
