// Package templates renders the board pages. The components are written in
// templ; run `templ generate` after editing a .templ file.
package templates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/statboard/internal/core"
)

// BoardLink is one entry on the index page.
type BoardLink struct {
	Preset core.Preset
	URL    string
}

// BoardPage is everything the board page shows.
type BoardPage struct {
	Preset core.Preset
	View   core.View

	// HeaderLinks holds the target of each header, aligned with
	// View.Headers(). Empty entries render as plain text.
	HeaderLinks []string

	SearchAction string
	ExportCSV    string
	ExportXLSX   string
	JSON         string
	LoadedAt     time.Time
}

// TierClass returns the CSS class for a tier label: "tier-" followed by the
// label lowercased with every run of other characters replaced by "-".
func TierClass(label string) string {
	if label == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("tier-")
	dash := true
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	class := strings.TrimRight(b.String(), "-")
	if class == "tier" {
		return ""
	}
	return class
}

// cellClass highlights styled cells that have a value.
func cellClass(c core.Cell) string {
	if !c.Styled || c.Text() == "" {
		return ""
	}
	return TierClass(c.Tier)
}

func gaugeStyle(width float64) templ.SafeCSS {
	return templ.SafeCSS(fmt.Sprintf("width: %s%%;", strconv.FormatFloat(width, 'f', -1, 64)))
}

func headerLabel(hd core.Header) string {
	if ind := hd.Indicator(); ind != "" {
		return hd.Label + " " + ind
	}
	return hd.Label
}

func headerLink(links []string, i int) string {
	if i < len(links) {
		return links[i]
	}
	return ""
}

func rowCount(v core.View) string {
	return strconv.Itoa(len(v.Rows())) + " of " + strconv.Itoa(v.Total()) + " rows"
}
