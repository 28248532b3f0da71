package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/statboard/internal/core"
)

func TestTierClass(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"elite":    "tier-elite",
		"High":     "tier-high",
		"Top 10%":  "tier-top-10",
		"a  b":     "tier-a-b",
		"<script>": "tier-script",
		"!!!":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TierClass(in), "TierClass(%q)", in)
	}
}

func boardPage(t *testing.T) BoardPage {
	t.Helper()

	table, err := core.Parse("Name,MSR\n<b>A</b>,7.5\nB,4\nC,")
	require.NoError(t, err)

	schema := core.Schema{{Key: "Name"}, {Key: "MSR", Type: core.FieldNumber}}
	g := core.Gauge{Scale: 10, Min: 10, Max: 100}
	cfg := core.ViewConfig{
		Schema: schema,
		Columns: []core.ColumnStyle{{
			Key:   "MSR",
			Tiers: core.NewTierRules("low", core.TierRule{Threshold: 7, Label: "high"}, core.TierRule{Threshold: 5, Label: "mid"}),
			Gauge: &g,
		}},
	}
	v := core.NewView(cfg, core.Project(table.Rows, schema)).OnHeaderClick("MSR")

	return BoardPage{
		Preset:       core.Preset{Key: "msr", Title: "MSR & Friends"},
		View:         v,
		HeaderLinks:  []string{"/boards/msr?sort=Name&dir=asc", "/boards/msr?sort=MSR&dir=desc"},
		SearchAction: "/boards/msr",
		ExportCSV:    "/api/boards/msr/export.csv",
		ExportXLSX:   "/api/boards/msr/export.xlsx",
		JSON:         "/api/boards/msr/view",
	}
}

func TestBoard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Board(boardPage(t)).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, "MSR &amp; Friends")
	assert.Contains(t, out, "&lt;b&gt;A&lt;/b&gt;", "cell text is escaped")
	assert.NotContains(t, out, "<b>A</b>")
	assert.Contains(t, out, `<a href="/boards/msr?sort=MSR&amp;dir=desc">MSR ▲</a>`)
	assert.Contains(t, out, `aria-sort="ascending"`)
	assert.Contains(t, out, `class="tier-high"`)
	assert.Contains(t, out, `class="tier-low"`)
	assert.Contains(t, out, `style="width: 75%;"`)
	assert.Contains(t, out, `style="width: 40%;"`)
	assert.Contains(t, out, `name="sort" value="MSR"`)
	assert.Contains(t, out, "3 of 3 rows")

	// The empty MSR cell gets the minimum bar but no tier highlight.
	assert.Contains(t, out, `<td><div class="bar" style="width: 10%;"></div></td>`)
}

func TestBoard_Empty(t *testing.T) {
	p := boardPage(t)
	p.View = core.NewView(core.ViewConfig{Schema: core.Schema{{Key: "Name"}}}, nil)

	var buf bytes.Buffer
	require.NoError(t, Board(p).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "no rows yet")
	assert.NotContains(t, buf.String(), "<table")
}

func TestLayoutAndIndex(t *testing.T) {
	boards := []BoardLink{
		{Preset: core.Preset{Key: "a", Title: "Alpha", Description: "First"}, URL: "/boards/a"},
		{Preset: core.Preset{Key: "b", Title: "Beta"}, URL: "/boards/b"},
	}

	var buf bytes.Buffer
	require.NoError(t, Layout("Boards <all>", Index(boards)).Render(context.Background(), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Boards &lt;all&gt;</title>")
	assert.Contains(t, out, `<a href="/boards/a">Alpha</a> <p>First</p>`)
	assert.Contains(t, out, `<a href="/boards/b">Beta</a> </li>`)
	assert.True(t, strings.HasSuffix(out, "</html>"))
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	msg := core.UserMessage{Message: "Board not found", Action: "Pick a board", Code: "PRE001"}
	require.NoError(t, ErrorPage(msg, 404).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "<h1>404 Board not found</h1><p>Pick a board</p>")
	assert.Contains(t, buf.String(), "Code: PRE001")
}

func TestErrorPage_NoAction(t *testing.T) {
	var buf bytes.Buffer
	msg := core.UserMessage{Message: "Something went wrong", Code: "SYS001"}
	require.NoError(t, ErrorPage(msg, 500).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), `</h1><p class="code">Code: SYS001</p>`)
}

func TestBoard_UnsafeLinkSanitized(t *testing.T) {
	p := boardPage(t)
	p.HeaderLinks = []string{"javascript:alert(1)", ""}

	var buf bytes.Buffer
	require.NoError(t, Board(p).Render(context.Background(), &buf))
	out := buf.String()

	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, string(templ.FailedSanitizationURL))
	assert.Contains(t, out, `<th class="sorted" aria-sort="ascending">MSR ▲</th>`, "empty link renders plain text")
}

func TestLayout_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Layout("x", Index(nil)).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
