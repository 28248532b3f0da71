// Package export writes the visible rows of a board view as CSV or XLSX.
//
// Both formats write the rows in view order, so an export reflects the sort
// and search that were active when it was requested.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/statboard/internal/core"
)

// Options controls optional export columns.
type Options struct {
	// Tiers adds a "<label> tier" column after every styled column.
	Tiers bool

	// Sheet names the XLSX worksheet (default: "Board").
	Sheet string
}

// DefaultSheet is the worksheet name used when Options.Sheet is empty.
const DefaultSheet = "Board"

// Content types for HTTP responses.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// column is one output column: a view column, or the tier of a styled one.
type column struct {
	index int
	label string
	tier  bool
}

func columns(v core.View, opts Options) []column {
	headers := v.Headers()
	out := make([]column, 0, len(headers))
	for i, h := range headers {
		out = append(out, column{index: i, label: h.Label})
		if opts.Tiers && v.Styled(h.Key) {
			out = append(out, column{index: i, label: h.Label + " tier", tier: true})
		}
	}
	return out
}

// CSV writes the view as comma-separated values with a header line.
func CSV(w io.Writer, v core.View, opts Options) error {
	cols := columns(v, opts)
	cw := csv.NewWriter(w)

	record := make([]string, len(cols))
	for i, c := range cols {
		record[i] = c.label
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range v.Rows() {
		for i, c := range cols {
			cell := row.Cells[c.index]
			if c.tier {
				record[i] = cell.Tier
			} else {
				record[i] = cell.Text()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// XLSX writes the view as a single-sheet workbook. Numeric cells of
// non-string columns are stored as numbers; the header row is bold and frozen.
func XLSX(w io.Writer, v core.View, opts Options) error {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	cols := columns(v, opts)
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, c.label); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	if len(cols) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("header style: %w", err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
	}

	for r, row := range v.Rows() {
		for i, c := range cols {
			value := cellValue(row.Cells[c.index], c.tier)
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func cellValue(c core.Cell, tier bool) any {
	switch {
	case tier:
		return c.Tier
	case c.Value.Missing || c.Value.Raw == "":
		return nil
	case c.Value.Type != core.FieldString && core.FloatPtr(c.Value.Num) != nil:
		return c.Value.Num
	default:
		return c.Value.Raw
	}
}
