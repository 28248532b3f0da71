// Package textview renders board views as terminal or Markdown tables.
package textview

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JonMunkholm/statboard/internal/core"
)

// Mode selects the output format.
type Mode int

const (
	ASCII    Mode = iota // Box-drawn terminal table
	Markdown             // GitHub-flavoured Markdown table
)

// ParseMode accepts "table"/"ascii" and "markdown"/"md".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "table", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return ASCII, fmt.Errorf("unknown format %q", s)
	}
}

// Render draws the visible rows of v. Styled cells carry their tier label in
// brackets and the active sort column shows its direction arrow.
func Render(v core.View, m Mode) string {
	w := table.NewWriter()
	style := table.StyleDefault
	if m == ASCII {
		style = table.StyleLight
	}
	// Column keys are case-sensitive; keep them as written.
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	w.SetStyle(style)

	headers := v.Headers()
	hrow := make(table.Row, len(headers))
	for i, h := range headers {
		label := h.Label
		if ind := h.Indicator(); ind != "" {
			label += " " + ind
		}
		hrow[i] = label
	}
	w.AppendHeader(hrow)

	rows := v.Rows()
	for _, r := range rows {
		row := make(table.Row, len(r.Cells))
		for i, c := range r.Cells {
			row[i] = cellText(c)
		}
		w.AppendRow(row)
	}

	w.SetColumnConfigs(columnConfigs(rows))

	footer := make(table.Row, len(headers))
	if len(footer) > 0 {
		footer[0] = fmt.Sprintf("%d of %d", len(rows), v.Total())
		w.AppendFooter(footer)
	}

	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func cellText(c core.Cell) string {
	s := c.Text()
	if c.Styled && s != "" && c.Tier != "" {
		s += " [" + c.Tier + "]"
	}
	return s
}

// columnConfigs right-aligns columns declared as numbers.
func columnConfigs(rows []core.Row) []table.ColumnConfig {
	if len(rows) == 0 {
		return nil
	}
	var cfgs []table.ColumnConfig
	for i, c := range rows[0].Cells {
		if c.Value.Type == core.FieldNumber {
			cfgs = append(cfgs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	return cfgs
}
