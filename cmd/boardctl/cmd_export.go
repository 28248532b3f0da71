package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/statboard/internal/core"
	"github.com/JonMunkholm/statboard/internal/export"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		vf          viewFlags
		exportFlags struct {
			format string
			output string
			sheet  string
			tiers  bool
		}
	)

	cmd := &cobra.Command{
		Use:   "export [board]",
		Short: "Write a board's visible rows as CSV or XLSX",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var write func(io.Writer, core.View, export.Options) error
			switch exportFlags.format {
			case "csv":
				write = export.CSV
			case "xlsx":
				write = export.XLSX
			default:
				return fmt.Errorf("unknown export format %q", exportFlags.format)
			}
			if exportFlags.format == "xlsx" && exportFlags.output == "" {
				return fmt.Errorf("xlsx output needs --output")
			}

			board, err := vf.load(cmd.Context(), root.service(), args)
			if err != nil {
				return err
			}
			v := board.ViewWith(vf.state(), vf.search)
			opts := export.Options{Tiers: exportFlags.tiers, Sheet: exportFlags.sheet}

			if exportFlags.output == "" {
				return write(cmd.OutOrStdout(), v, opts)
			}

			f, err := os.Create(exportFlags.output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := write(f, v, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			slog.Info("board exported", "board", board.Preset.Key, "rows", len(v.Rows()), "file", exportFlags.output)
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", len(v.Rows()), exportFlags.output)
			return nil
		},
	}

	f := cmd.Flags()
	vf.register(f)
	f.StringVar(&exportFlags.format, "format", "csv", "Export format: csv or xlsx")
	f.StringVarP(&exportFlags.output, "output", "o", "", "Output file (stdout when empty, csv only)")
	f.StringVar(&exportFlags.sheet, "sheet", export.DefaultSheet, "Worksheet name for xlsx")
	f.BoolVar(&exportFlags.tiers, "tier-columns", false, "Add a tier label column after each styled column")
	return cmd
}
