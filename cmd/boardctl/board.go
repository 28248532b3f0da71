package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/JonMunkholm/statboard/internal/core"
)

// viewFlags selects a board and the sort and search applied to it. A board
// comes either from the registry (by key) or from a CSV file on disk.
type viewFlags struct {
	file      string
	sort      string
	desc      bool
	search    string
	searchKey string
	style     string
	tiers     string
	tierDef   string
}

func (f *viewFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.file, "file", "", "Read an ad-hoc CSV file instead of a registered board")
	fs.StringVar(&f.sort, "sort", "", "Column to sort by")
	fs.BoolVar(&f.desc, "desc", false, "Sort descending")
	fs.StringVarP(&f.search, "search", "s", "", "Case-insensitive substring filter")
	fs.StringVar(&f.searchKey, "search-key", "", "Column searched with --file (default first column)")
	fs.StringVar(&f.style, "style", "", "Column classified into tiers with --file")
	fs.StringVar(&f.tiers, "tiers", "", "Tier thresholds for --style, e.g. 20=elite,10=strong")
	fs.StringVar(&f.tierDef, "default-tier", "", "Label for values below every threshold")
}

func (f *viewFlags) state() core.SortState {
	if f.sort == "" {
		return core.SortState{}
	}
	dir := core.Ascending
	if f.desc {
		dir = core.Descending
	}
	return core.SortState{Key: f.sort, Direction: dir}
}

// load returns the board named by args[0] or by --file.
func (f *viewFlags) load(ctx context.Context, svc *core.Service, args []string) (*core.Board, error) {
	if f.file == "" {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected a board key or --file")
		}
		return svc.Load(ctx, args[0])
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("--file cannot be combined with a board key")
	}

	p, err := f.filePreset()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.file, err)
	}
	return svc.Build(p, core.CleanText(data))
}

// filePreset describes an ad-hoc board for --file.
func (f *viewFlags) filePreset() (core.Preset, error) {
	name := strings.TrimSuffix(filepath.Base(f.file), filepath.Ext(f.file))
	p := core.Preset{
		Key:       name,
		Title:     name,
		Source:    f.file,
		SearchKey: f.searchKey,
	}
	if f.style == "" {
		if f.tiers != "" {
			return p, fmt.Errorf("--tiers requires --style")
		}
		return p, nil
	}

	rules, err := parseTiers(f.tiers)
	if err != nil {
		return p, err
	}
	p.Columns = []core.ColumnStyle{{Key: f.style, Tiers: core.NewTierRules(f.tierDef, rules...)}}
	return p, nil
}

// parseTiers reads "20=elite,10=strong".
func parseTiers(s string) ([]core.TierRule, error) {
	var rules []core.TierRule
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		threshold, label, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("invalid tier %q: want THRESHOLD=LABEL", part)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(threshold), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tier threshold %q", threshold)
		}
		rules = append(rules, core.TierRule{Threshold: t, Label: strings.TrimSpace(label)})
	}
	return rules, nil
}
