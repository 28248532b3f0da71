package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/statboard/internal/core"
	"github.com/JonMunkholm/statboard/internal/core/presets"
	"github.com/JonMunkholm/statboard/internal/fetch"
	"github.com/JonMunkholm/statboard/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	dataDir     string
	presetsFile string
	logLevel    string
	timeout     time.Duration
	maxBytes    int64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "boardctl",
		Short: "Inspect and export leaderboards from the command line",
		Long: "boardctl loads the same boards as the web server and renders them\n" +
			"as terminal tables, Markdown, JSON, CSV or XLSX.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
			if opts.presetsFile == "" {
				return nil
			}
			n, err := presets.LoadFile(opts.presetsFile)
			if err != nil {
				return err
			}
			slog.Debug("presets loaded", "file", opts.presetsFile, "boards", n)
			return nil
		},
	}
	cmd.Version = version

	f := cmd.PersistentFlags()
	f.StringVar(&opts.dataDir, "data-dir", envOr("DATA_DIR", "data"), "Directory relative board sources are read from")
	f.StringVar(&opts.presetsFile, "presets", os.Getenv("DATA_PRESETS_FILE"), "Extra YAML preset file")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "Timeout for remote sources")
	f.Int64Var(&opts.maxBytes, "max-bytes", 10<<20, "Largest data file accepted")

	cmd.AddCommand(newPresetsCmd())
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

// service builds a Service reading local sources from the data directory
// and URLs over HTTP.
func (o *rootOptions) service() *core.Service {
	return core.NewService(fetch.Mux{
		Remote: fetch.NewHTTP(o.timeout, o.maxBytes),
		Local:  fetch.NewDir(o.dataDir, o.maxBytes),
	})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}
