// Package presets registers the built-in leaderboards with the core registry.
// Import this package to ensure all boards are registered.
//
// Boards are described in YAML. The files under boards/ are embedded and
// registered at init; Load and LoadFile add further boards at runtime.
package presets

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/statboard/internal/core"
)

//go:embed boards/*.yaml
var boardFS embed.FS

// File is the top-level shape of a preset file.
type File struct {
	Boards []Board `yaml:"boards" validate:"required,min=1,dive"`
}

// Board is one preset as written in YAML.
type Board struct {
	Key         string            `yaml:"key" validate:"required,boardkey"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Source      string            `yaml:"source" validate:"required"`
	SearchKey   string            `yaml:"search_key"`
	Columns     []Column          `yaml:"columns" validate:"dive"`
	Types       map[string]string `yaml:"types" validate:"dive,oneof=auto string text number numeric"`
	Relocations []Relocation      `yaml:"relocations" validate:"dive"`
	Styles      []Style           `yaml:"styles" validate:"dive"`
	Sort        *Sort             `yaml:"sort"`
}

// Column is an explicit schema entry. When a board lists columns, the file's
// header line no longer decides which columns are shown.
type Column struct {
	Source       string `yaml:"source"`
	Key          string `yaml:"key" validate:"required"`
	Label        string `yaml:"label"`
	Type         string `yaml:"type" validate:"omitempty,oneof=auto string text number numeric"`
	InsertBefore string `yaml:"insert_before"`
	Spacer       bool   `yaml:"spacer"`
}

// Relocation moves Key in front of Before.
type Relocation struct {
	Key         string `yaml:"key" validate:"required"`
	Before      string `yaml:"before" validate:"required,nefield=Key"`
	Spacer      bool   `yaml:"spacer"`
	SpacerKey   string `yaml:"spacer_key"`
	SpacerLabel string `yaml:"spacer_label"`
}

// Style is the tier and gauge configuration for one column.
type Style struct {
	Key     string      `yaml:"key" validate:"required"`
	Default string      `yaml:"default"`
	Tiers   []Tier      `yaml:"tiers" validate:"dive"`
	Gauge   *core.Gauge `yaml:"gauge"`
}

// Tier is one threshold of a Style.
type Tier struct {
	Threshold float64 `yaml:"threshold"`
	Label     string  `yaml:"label" validate:"required"`
}

// Sort is a board's initial sort.
type Sort struct {
	Key       string `yaml:"key" validate:"required"`
	Direction string `yaml:"direction" validate:"omitempty,oneof=asc desc ascending descending"`
}

var boardKeyRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("boardkey", func(fl validator.FieldLevel) bool {
		return boardKeyRegex.MatchString(fl.Field().String())
	})
	return v
}

func init() {
	if err := registerEmbedded(); err != nil {
		panic(err)
	}
}

func registerEmbedded() error {
	names, err := fs.Glob(boardFS, "boards/*.yaml")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		f, err := boardFS.Open(name)
		if err != nil {
			return err
		}
		boards, err := Decode(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path.Base(name), err)
		}
		for _, p := range boards {
			core.Register(p)
		}
	}
	return nil
}

// Decode reads and validates a preset file and converts it to core presets.
// Unknown YAML fields are rejected.
func Decode(r io.Reader) ([]core.Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode presets: no boards defined")
		}
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Boards))
	out := make([]core.Preset, 0, len(file.Boards))
	for _, b := range file.Boards {
		if seen[b.Key] {
			return nil, fmt.Errorf("invalid presets: board %q defined twice", b.Key)
		}
		seen[b.Key] = true
		out = append(out, b.Preset())
	}
	return out, nil
}

// Load decodes r and registers every board it defines. A board whose key is
// already registered fails the whole load before anything is registered.
func Load(r io.Reader) (int, error) {
	boards, err := Decode(r)
	if err != nil {
		return 0, err
	}
	for _, p := range boards {
		if _, exists := core.Get(p.Key); exists {
			return 0, fmt.Errorf("preset already registered: %s", p.Key)
		}
	}
	for _, p := range boards {
		core.Register(p)
	}
	return len(boards), nil
}

// LoadFile is Load for a file on disk.
func LoadFile(name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()

	n, err := Load(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// Preset converts b to its core form.
func (b Board) Preset() core.Preset {
	p := core.Preset{
		Key:         b.Key,
		Title:       b.Title,
		Description: b.Description,
		Source:      b.Source,
		SearchKey:   b.SearchKey,
	}

	for _, c := range b.Columns {
		p.Schema = append(p.Schema, core.FieldSpec{
			Source:       c.Source,
			Key:          c.Key,
			Label:        c.Label,
			Type:         core.ParseFieldType(c.Type),
			InsertBefore: c.InsertBefore,
			Spacer:       c.Spacer,
		})
	}

	if len(b.Types) > 0 {
		p.Types = make(map[string]core.FieldType, len(b.Types))
		for k, t := range b.Types {
			p.Types[k] = core.ParseFieldType(t)
		}
	}

	for _, rl := range b.Relocations {
		p.Relocations = append(p.Relocations, core.Relocation{
			Key:         rl.Key,
			Before:      rl.Before,
			Spacer:      rl.Spacer,
			SpacerKey:   rl.SpacerKey,
			SpacerLabel: rl.SpacerLabel,
		})
	}

	for _, s := range b.Styles {
		rules := make([]core.TierRule, len(s.Tiers))
		for i, t := range s.Tiers {
			rules[i] = core.TierRule{Threshold: t.Threshold, Label: t.Label}
		}
		p.Columns = append(p.Columns, core.ColumnStyle{
			Key:   s.Key,
			Tiers: core.NewTierRules(s.Default, rules...),
			Gauge: s.Gauge,
		})
	}

	if b.Sort != nil {
		p.DefaultSort = core.SortState{
			Key:       b.Sort.Key,
			Direction: core.ParseSortDirection(b.Sort.Direction),
		}
	}

	return p
}
