package core

// view.go composes parse output, sort state and search term into the
// snapshot a renderer draws.
//
// A View is a value. OnHeaderClick and OnSearchChange return new Views and
// leave the receiver untouched, so a renderer can keep earlier snapshots
// around (for undo, or to diff) without copying. Every snapshot is rebuilt
// from the records as loaded: rows are sorted first, then filtered.

import "slices"

// ViewConfig describes the columns, the search column and the styled columns
// of a board.
type ViewConfig struct {
	Schema    Schema
	SearchKey string // Column searched by OnSearchChange; defaults to the first column
	Columns   []ColumnStyle
}

// Header is one column header of the current view.
type Header struct {
	Key       string        `json:"key"`
	Label     string        `json:"label"`
	Sortable  bool          `json:"sortable"`
	Active    bool          `json:"active"`              // Column is the current sort key
	Direction SortDirection `json:"direction,omitempty"` // Set only when Active
}

// Indicator returns an arrow for the active sort column, or "".
func (h Header) Indicator() string {
	if !h.Active {
		return ""
	}
	if h.Direction == Descending {
		return "▼"
	}
	return "▲"
}

// Cell is one display cell of a row.
type Cell struct {
	Key      string
	Value    Value
	Tier     string  // Tier label when the column is styled
	Styled   bool    // Column has tier rules
	Gauge    float64 // Bar width percent when HasGauge
	HasGauge bool
}

// Text is the display text of the cell.
func (c Cell) Text() string {
	return c.Value.Text()
}

// Row is a visible record with its precomputed cells.
type Row struct {
	Record Record
	Cells  []Cell
}

// Tier returns the tier label computed for key, or "" if key is not styled.
func (r Row) Tier(key string) string {
	for _, c := range r.Cells {
		if c.Key == key {
			return c.Tier
		}
	}
	return ""
}

// View is an immutable snapshot of what a board currently shows.
type View struct {
	cfg     *viewConfig
	records []Record
	sort    SortState
	search  string
	headers []Header
	rows    []Row
}

type viewConfig struct {
	schema    Schema
	keys      []string
	searchKey string
	styles    map[string]ColumnStyle
}

// NewView builds the initial snapshot: file order, empty search.
func NewView(cfg ViewConfig, records []Record) View {
	vc := &viewConfig{
		schema:    slices.Clone(cfg.Schema),
		keys:      cfg.Schema.Keys(),
		searchKey: cfg.SearchKey,
		styles:    make(map[string]ColumnStyle, len(cfg.Columns)),
	}
	if vc.searchKey == "" && len(vc.keys) > 0 {
		vc.searchKey = vc.keys[0]
	}
	for _, c := range cfg.Columns {
		vc.styles[c.Key] = c
	}

	v := View{
		cfg:     vc,
		records: slices.Clone(records),
		sort:    SortState{Direction: Ascending},
	}
	v.rebuild()
	return v
}

// OnHeaderClick returns the view after a click on the key column header.
// Clicks on unknown or spacer columns leave the view as it is.
func (v View) OnHeaderClick(key string) View {
	f, ok := v.cfg.schema.Field(key)
	if !ok || f.Spacer {
		return v
	}
	return v.WithSort(ToggleSort(v.sort, key))
}

// OnSearchChange returns the view filtered by term.
func (v View) OnSearchChange(term string) View {
	next := v
	next.search = term
	next.rebuild()
	return next
}

// WithSort returns the view with an explicit sort state, as when restoring
// a board from a URL. An unknown key resets to file order.
func (v View) WithSort(state SortState) View {
	if state.Direction != Descending {
		state.Direction = Ascending
	}
	if state.Key != "" {
		if f, ok := v.cfg.schema.Field(state.Key); !ok || f.Spacer {
			state = SortState{Direction: Ascending}
		}
	}
	next := v
	next.sort = state
	next.rebuild()
	return next
}

// Headers returns the column headers in display order.
func (v View) Headers() []Header {
	return slices.Clone(v.headers)
}

// Rows returns the visible rows in display order.
func (v View) Rows() []Row {
	return slices.Clone(v.rows)
}

// Sort returns the current sort state.
func (v View) Sort() SortState {
	return v.sort
}

// Search returns the current search term.
func (v View) Search() string {
	return v.search
}

// SearchKey returns the column the search term applies to.
func (v View) SearchKey() string {
	return v.cfg.searchKey
}

// Styled reports whether the key column has tier rules.
func (v View) Styled(key string) bool {
	_, ok := v.cfg.styles[key]
	return ok
}

// Total returns the number of loaded records, visible or not.
func (v View) Total() int {
	return len(v.records)
}

// rebuild recomputes headers and rows. It always assigns fresh slices so
// snapshots never share mutable state.
func (v *View) rebuild() {
	headers := make([]Header, len(v.cfg.keys))
	for i, k := range v.cfg.keys {
		f, _ := v.cfg.schema.Field(k)
		h := Header{Key: k, Label: f.HeaderLabel(), Sortable: !f.Spacer}
		if v.sort.Key == k {
			h.Active = true
			h.Direction = v.sort.Direction
		}
		headers[i] = h
	}
	v.headers = headers

	visible := Filter(Sort(v.records, v.sort.Key, v.sort.Direction), v.search, v.cfg.searchKey)

	rows := make([]Row, len(visible))
	for i, rec := range visible {
		cells := make([]Cell, len(v.cfg.keys))
		for j, k := range v.cfg.keys {
			val := rec.Get(k)
			c := Cell{Key: k, Value: val}
			if style, ok := v.cfg.styles[k]; ok {
				c.Styled = true
				c.Tier = Classify(val.Num, style.Tiers)
				if style.Gauge != nil {
					c.HasGauge = true
					c.Gauge = style.Gauge.Width(val.Num)
				}
			}
			cells[j] = c
		}
		rows[i] = Row{Record: rec, Cells: cells}
	}
	v.rows = rows
}

// Snapshot is the plain-data form of a View, safe to encode as JSON.
type Snapshot struct {
	Headers []Header      `json:"headers"`
	Rows    []SnapshotRow `json:"rows"`
	Sort    SortState     `json:"sort"`
	Search  string        `json:"search"`
	Total   int           `json:"total"`
	Visible int           `json:"visible"`
}

// SnapshotRow is one row of a Snapshot.
type SnapshotRow struct {
	Cells []SnapshotCell `json:"cells"`
}

// SnapshotCell is one cell of a SnapshotRow. Number is nil when the cell is
// not numeric.
type SnapshotCell struct {
	Key     string   `json:"key"`
	Text    string   `json:"text"`
	Number  *float64 `json:"number,omitempty"`
	Missing bool     `json:"missing,omitempty"`
	Tier    string   `json:"tier,omitempty"`
	Gauge   *float64 `json:"gauge,omitempty"`
}

// Snapshot converts the view to plain data.
func (v View) Snapshot() Snapshot {
	rows := make([]SnapshotRow, len(v.rows))
	for i, r := range v.rows {
		cells := make([]SnapshotCell, len(r.Cells))
		for j, c := range r.Cells {
			sc := SnapshotCell{
				Key:     c.Key,
				Text:    c.Text(),
				Number:  FloatPtr(c.Value.Num),
				Missing: c.Value.Missing,
				Tier:    c.Tier,
			}
			if c.HasGauge {
				sc.Gauge = FloatPtr(c.Gauge)
			}
			cells[j] = sc
		}
		rows[i] = SnapshotRow{Cells: cells}
	}
	return Snapshot{
		Headers: v.Headers(),
		Rows:    rows,
		Sort:    v.sort,
		Search:  v.search,
		Total:   len(v.records),
		Visible: len(v.rows),
	}
}
