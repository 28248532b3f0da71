package core

// parse.go turns delimited stats text into header-keyed raw rows.
//
// The format is minimal: comma separates fields, newline separates
// rows, the first line is the header. There is no quoting or escaping, so a
// value containing a comma splits into two fields. This matches every
// leaderboard file the boards consume today.

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const utf8BOM = "\uFEFF"

// Parse splits text into a header list and one RawRow per data line.
//
// Whitespace-only input returns ErrEmptyInput. A data line with fewer fields
// than headers leaves the trailing headers absent from its RawRow; extra
// fields past the last header are dropped. When a header name repeats, the
// later field's value wins.
func Parse(text string) (Table, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Table{}, ErrEmptyInput
	}

	lines := strings.Split(text, "\n")

	headers := strings.Split(lines[0], ",")
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		row := make(RawRow, len(headers))
		for i, h := range headers {
			if i >= len(values) {
				continue
			}
			row[h] = strings.TrimSpace(values[i])
		}
		rows = append(rows, row)
	}

	return Table{Headers: headers, Rows: rows}, nil
}

// ParseReader reads all of r, strips a UTF-8 byte order mark and replaces
// invalid UTF-8 sequences with '?' before parsing.
func ParseReader(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	return Parse(CleanText(data))
}

// CleanText converts raw file bytes into parseable text. Spreadsheet exports
// on Windows commonly prefix a BOM, and hand-edited files sometimes carry
// Latin-1 bytes.
func CleanText(data []byte) string {
	s := string(data)
	s = strings.TrimPrefix(s, utf8BOM)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "?")
	}
	return s
}
