package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/statboard/internal/textview"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var (
		vf     viewFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "show [board]",
		Short: "Render a board in the terminal",
		Example: "  boardctl show prospect-index --sort Score --desc\n" +
			"  boardctl show --file stats.csv --style PTS --tiers 20=hot,10=warm --default-tier cold",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := vf.load(cmd.Context(), root.service(), args)
			if err != nil {
				return err
			}
			v := board.ViewWith(vf.state(), vf.search)
			out := cmd.OutOrStdout()

			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(v.Snapshot())
			}

			mode, err := textview.ParseMode(format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, textview.Render(v, mode))
			return err
		},
	}

	vf.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, markdown, json")
	return cmd
}
