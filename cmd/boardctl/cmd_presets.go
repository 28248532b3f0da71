package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/statboard/internal/core"
)

func newPresetsCmd() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the registered boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := table.NewWriter()
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"Key", "Title", "Source", "Tiers"})
			for _, p := range core.All() {
				w.AppendRow(table.Row{p.Key, p.Title, p.Source, tierSummary(p)})
			}

			out := w.Render()
			if markdown {
				out = w.RenderMarkdown()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render as a Markdown table")
	return cmd
}

// tierSummary describes each styled column as "COL: label>=t, ..., default".
func tierSummary(p core.Preset) string {
	s := ""
	for i, c := range p.Columns {
		if i > 0 {
			s += "; "
		}
		s += c.Key + ":"
		for _, r := range c.Tiers.Rules {
			s += fmt.Sprintf(" %s>=%g,", r.Label, r.Threshold)
		}
		s += " " + c.Tiers.Default
	}
	return s
}
