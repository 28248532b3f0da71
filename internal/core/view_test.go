package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const scoresCSV = "Name,Games,MSR\nA,1,25\nB,2,5\nC,3,15"

var scoreTiers = NewTierRules("emerging",
	TierRule{Threshold: 20, Label: "elite"},
	TierRule{Threshold: 10, Label: "strong"},
)

func scoresView(t *testing.T) View {
	t.Helper()
	table, err := Parse(scoresCSV)
	if err != nil {
		t.Fatal(err)
	}
	schema := Schema{
		{Source: "Name", Key: "Name", Type: FieldString},
		{Source: "Games", Key: "Games", Type: FieldNumber},
		{Source: "MSR", Key: "MSR", Type: FieldNumber},
	}
	return NewView(ViewConfig{
		Schema:  schema,
		Columns: []ColumnStyle{{Key: "MSR", Tiers: scoreTiers}},
	}, Project(table.Rows, schema))
}

func names(v View) []string {
	out := make([]string, 0, len(v.Rows()))
	for _, r := range v.Rows() {
		out = append(out, r.Record.Get("Name").Text())
	}
	return out
}

func TestView_SortAndClassify(t *testing.T) {
	v := scoresView(t).WithSort(SortState{Key: "MSR", Direction: Descending})

	if diff := cmp.Diff([]string{"A", "C", "B"}, names(v)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	var tiers []string
	for _, r := range v.Rows() {
		tiers = append(tiers, r.Tier("MSR"))
	}
	if diff := cmp.Diff([]string{"elite", "strong", "emerging"}, tiers); diff != "" {
		t.Errorf("tiers mismatch (-want +got):\n%s", diff)
	}
}

func TestView_SearchKeepsRelativeOrder(t *testing.T) {
	v := scoresView(t).OnSearchChange("b")

	if diff := cmp.Diff([]string{"B"}, names(v)); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
	if v.Total() != 3 {
		t.Errorf("Total() = %d, want 3", v.Total())
	}
	if v.SearchKey() != "Name" {
		t.Errorf("SearchKey() = %q, want first column", v.SearchKey())
	}

	cleared := v.OnSearchChange("")
	if diff := cmp.Diff([]string{"A", "B", "C"}, names(cleared)); diff != "" {
		t.Errorf("clearing search mismatch (-want +got):\n%s", diff)
	}
}

func TestView_HeaderClickToggles(t *testing.T) {
	v0 := scoresView(t)
	v1 := v0.OnHeaderClick("MSR")
	v2 := v1.OnHeaderClick("MSR")
	v3 := v2.OnHeaderClick("MSR")

	if got := v1.Sort(); got != (SortState{Key: "MSR", Direction: Ascending}) {
		t.Errorf("first click = %+v", got)
	}
	if got := v2.Sort(); got != (SortState{Key: "MSR", Direction: Descending}) {
		t.Errorf("second click = %+v", got)
	}
	if diff := cmp.Diff(names(v1), names(v3)); diff != "" {
		t.Errorf("asc, desc, asc should restore order (-v1 +v3):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B", "C", "A"}, names(v1)); diff != "" {
		t.Errorf("ascending mismatch (-want +got):\n%s", diff)
	}

	v4 := v2.OnHeaderClick("Games")
	if got := v4.Sort(); got != (SortState{Key: "Games", Direction: Ascending}) {
		t.Errorf("switching column = %+v", got)
	}
}

func TestView_SnapshotsAreIndependent(t *testing.T) {
	v0 := scoresView(t)
	before := names(v0)

	_ = v0.OnHeaderClick("MSR").OnHeaderClick("MSR")
	_ = v0.OnSearchChange("c")

	if diff := cmp.Diff(before, names(v0)); diff != "" {
		t.Errorf("earlier snapshot changed (-before +after):\n%s", diff)
	}
	if v0.Sort().Key != "" || v0.Search() != "" {
		t.Errorf("earlier snapshot state changed: %+v %q", v0.Sort(), v0.Search())
	}

	rows := v0.Rows()
	rows[0] = Row{}
	if names(v0)[0] != "A" {
		t.Error("Rows() exposes internal slice")
	}
}

func TestView_SortThenFilter(t *testing.T) {
	v := scoresView(t).OnHeaderClick("MSR").OnHeaderClick("MSR").OnSearchChange("c")
	if diff := cmp.Diff([]string{"C"}, names(v)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Widening the search recomputes from the loaded records.
	v = v.OnSearchChange("")
	if diff := cmp.Diff([]string{"A", "C", "B"}, names(v)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestView_Headers(t *testing.T) {
	table, err := Parse("Player,MIN,MSR\nA,10,8")
	if err != nil {
		t.Fatal(err)
	}
	schema := IdentitySchema(table.Headers).Relocate("MSR", "MIN").WithSpacer("gap", "", "MSR")
	v := NewView(ViewConfig{Schema: schema}, Project(table.Rows, schema)).OnHeaderClick("MSR").OnHeaderClick("MSR")

	want := []Header{
		{Key: "Player", Label: "Player", Sortable: true},
		{Key: "gap", Label: "", Sortable: false},
		{Key: "MSR", Label: "MSR", Sortable: true, Active: true, Direction: Descending},
		{Key: "MIN", Label: "MIN", Sortable: true},
	}
	if diff := cmp.Diff(want, v.Headers()); diff != "" {
		t.Errorf("Headers() mismatch (-want +got):\n%s", diff)
	}
	if ind := v.Headers()[2].Indicator(); ind != "▼" {
		t.Errorf("Indicator() = %q", ind)
	}

	// Spacer and unknown clicks are ignored.
	if got := v.OnHeaderClick("gap").Sort(); got != v.Sort() {
		t.Errorf("spacer click changed sort to %+v", got)
	}
	if got := v.OnHeaderClick("nope").Sort(); got != v.Sort() {
		t.Errorf("unknown click changed sort to %+v", got)
	}
}

func TestView_WithSortUnknownKeyResets(t *testing.T) {
	v := scoresView(t).WithSort(SortState{Key: "Nope", Direction: Descending})
	if got := v.Sort(); got != (SortState{Direction: Ascending}) {
		t.Errorf("Sort() = %+v, want file order", got)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, names(v)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestView_Gauge(t *testing.T) {
	table, err := Parse("Name,MSR\nA,5\nB,x")
	if err != nil {
		t.Fatal(err)
	}
	schema := IdentitySchema(table.Headers)
	v := NewView(ViewConfig{
		Schema: schema,
		Columns: []ColumnStyle{{
			Key:   "MSR",
			Tiers: NewTierRules("low", TierRule{Threshold: 7, Label: "high"}),
			Gauge: &Gauge{Scale: 10, Min: 10, Max: 100},
		}},
	}, Project(table.Rows, schema))

	rows := v.Rows()
	a, b := rows[0].Cells[1], rows[1].Cells[1]
	if !a.HasGauge || a.Gauge != 50 || a.Tier != "low" {
		t.Errorf("A cell = %+v", a)
	}
	if b.Gauge != 10 || b.Tier != "low" || !math.IsNaN(b.Value.Num) {
		t.Errorf("B cell = %+v", b)
	}
	if rows[0].Cells[0].Styled || rows[0].Tier("Name") != "" {
		t.Error("unstyled column carries a tier")
	}
	if !v.Styled("MSR") || v.Styled("Name") {
		t.Error("Styled() wrong")
	}
}

func TestView_Snapshot(t *testing.T) {
	table, err := Parse("Name,MSR\nA,25\nB,x")
	if err != nil {
		t.Fatal(err)
	}
	schema := IdentitySchema(table.Headers)
	v := NewView(ViewConfig{Schema: schema, Columns: []ColumnStyle{{Key: "MSR", Tiers: scoreTiers}}}, Project(table.Rows, schema))

	snap := v.Snapshot()
	if snap.Total != 2 || snap.Visible != 2 {
		t.Errorf("counts = %d/%d", snap.Visible, snap.Total)
	}
	if c := snap.Rows[0].Cells[1]; c.Number == nil || *c.Number != 25 || c.Tier != "elite" {
		t.Errorf("A MSR = %+v", c)
	}
	if c := snap.Rows[1].Cells[1]; c.Number != nil || c.Text != "x" || c.Tier != "emerging" {
		t.Errorf("B MSR = %+v", c)
	}

	// NaN cells must not break encoding.
	if _, err := json.Marshal(snap); err != nil {
		t.Errorf("Marshal() error = %v", err)
	}
}

func TestView_Empty(t *testing.T) {
	v := NewView(ViewConfig{Schema: IdentitySchema([]string{"A"})}, nil)
	if len(v.Rows()) != 0 || v.Total() != 0 {
		t.Errorf("empty view has rows")
	}
	if got := v.OnSearchChange("x").OnHeaderClick("A"); len(got.Rows()) != 0 {
		t.Errorf("empty view has rows after transitions")
	}
}

func TestView_BlankHeaderSortable(t *testing.T) {
	table, err := Parse("Name,\nA,3\nB,1\nC,2")
	if err != nil {
		t.Fatal(err)
	}
	schema := IdentitySchema(table.Headers)
	v := NewView(ViewConfig{Schema: schema}, Project(table.Rows, schema))

	key := v.Headers()[1].Key
	v = v.OnHeaderClick(key)
	if diff := cmp.Diff([]string{"B", "C", "A"}, names(v)); diff != "" {
		t.Errorf("ascending order mismatch (-want +got):\n%s", diff)
	}
	h := v.Headers()[1]
	if !h.Active || h.Label != "" || v.Headers()[0].Active {
		t.Errorf("headers = %+v, want only the blank column active", v.Headers())
	}

	v = v.OnHeaderClick(key)
	if diff := cmp.Diff([]string{"A", "C", "B"}, names(v)); diff != "" {
		t.Errorf("descending order mismatch (-want +got):\n%s", diff)
	}
	if v.Sort() != (SortState{Key: key, Direction: Descending}) {
		t.Errorf("Sort() = %+v", v.Sort())
	}
}
