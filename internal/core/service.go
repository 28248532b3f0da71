package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/statboard/internal/logging"
	"github.com/google/uuid"
)

// Fetcher resolves a preset source to raw CSV text.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// Board is one loaded data file together with the preset that shapes it.
type Board struct {
	ID       string
	Preset   Preset
	Headers  []string
	Schema   Schema
	Records  []Record
	LoadedAt time.Time
}

// View returns the board's initial view with the preset's default sort.
func (b *Board) View() View {
	v := NewView(b.Preset.ViewConfig(b.Schema), b.Records)
	if b.Preset.DefaultSort.Key != "" {
		v = v.WithSort(b.Preset.DefaultSort)
	}
	return v
}

// ViewWith returns the board's view with a sort state and search term
// applied. A state with an empty key keeps the preset's default sort.
func (b *Board) ViewWith(state SortState, term string) View {
	v := b.View()
	if state.Key != "" {
		v = v.WithSort(state)
	}
	if term != "" {
		v = v.OnSearchChange(term)
	}
	return v
}

// Service provides the board operations used by the web server and CLI.
type Service struct {
	fetcher Fetcher
	now     func() time.Time
}

// NewService creates a new Service instance.
func NewService(fetcher Fetcher) *Service {
	return &Service{
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Presets returns all registered presets.
func (s *Service) Presets() []Preset {
	return All()
}

// Load fetches and parses the data for the preset registered under key.
func (s *Service) Load(ctx context.Context, key string) (*Board, error) {
	p, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, key)
	}

	text, err := s.fetcher.Fetch(ctx, p.Source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	board, err := s.Build(p, text)
	if err != nil {
		return nil, err
	}

	logging.WithFields(ctx,
		"board_id", board.ID,
		"preset", p.Key,
	).Info("board loaded",
		"rows", len(board.Records),
		"columns", len(board.Schema),
	)

	return board, nil
}

// Build parses text and projects it through the preset's schema.
func (s *Service) Build(p Preset, text string) (*Board, error) {
	table, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.Key, err)
	}

	schema, err := p.ResolveSchema(table.Headers)
	if err != nil {
		return nil, err
	}

	return &Board{
		ID:       uuid.New().String(),
		Preset:   p,
		Headers:  table.Headers,
		Schema:   schema,
		Records:  Project(table.Rows, schema),
		LoadedAt: s.now(),
	}, nil
}

// View loads the board for key and applies a sort state and search term.
// A state with an empty key keeps the preset's default sort.
func (s *Service) View(ctx context.Context, key string, state SortState, term string) (View, error) {
	board, err := s.Load(ctx, key)
	if err != nil {
		return View{}, err
	}

	return board.ViewWith(state, term), nil
}
