// Package main is the humantools command line: every tool as a subcommand
// over local files, plus an MCP server on stdio.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/humantools/internal/config"
	"github.com/dgallion1/humantools/internal/tools"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg    config.Config
	logger *slog.Logger
	kit    *tools.Toolkit
)

// rootCmd is the base command for the humantools CLI.
var rootCmd = &cobra.Command{
	Use:   "humantools",
	Short: "Everyday PDF and photo tools",
	Long: `humantools combines, splits and signs PDFs, turns images and documents
into PDFs, edits photos in bulk, renders slideshows and makes memes.

Each tool is a subcommand that reads local files and writes one output file.
The mcp subcommand serves the same tools to AI agents over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = os.Getenv("HUMANTOOLS_CONFIG")
		}
		var err error
		if cfg, err = config.LoadFrom(path); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		kit = tools.FromConfig(cfg, logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: $HUMANTOOLS_CONFIG)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log tool progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
