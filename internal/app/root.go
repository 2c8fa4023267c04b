package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/config"
	"github.com/blackwell-systems/lexcov/internal/logging"
)

var (
	dbPath    string
	configDir string
	logLevel  string

	// cfg is the effective configuration, resolved before every command runs.
	cfg = config.Default()

	// RootCmd is the root command for lexcov
	RootCmd = &cobra.Command{
		Use:   "lexcov",
		Short: "Mutual lexical coverage analysis for multilingual word lists",
		Long: `lexcov measures how many concepts the languages of a word list share.

The mutual coverage of two languages is the number of concepts for which
both have at least one word. A word list whose languages all share many
concepts is a good basis for automatic cognate detection; lexcov finds the
weakest pairs and the largest set of languages that meets a threshold.

Quick Start:
  1. lexcov import data/polynesian.tsv
  2. lexcov coverage polynesian
  3. lexcov subset polynesian --threshold 150 --export subset.tsv

Word lists are tab-separated files with a DOCULECT (or LANGUAGE) column and a
CONCEPT (or GLOSS) column. IPA, ID and any other columns are kept.

Examples:
  # Check that every pair shares at least 200 concepts
  lexcov coverage polynesian --check 200

  # Show the 10 weakest language pairs
  lexcov coverage polynesian --pairs --limit 10

  # Recompute coverage whenever the file changes
  lexcov watch data/polynesian.tsv --threshold 150`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "lexcov: mutual lexical coverage analysis for multilingual word lists")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'lexcov import <file>' to load a word list.")
			fmt.Fprintln(out, "Run 'lexcov --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.lexcov/lexcov.db)")
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: $XDG_CONFIG_HOME/lexcov)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(coverageCmd)
	RootCmd.AddCommand(subsetCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(undoCmd)
	RootCmd.AddCommand(configCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig resolves the effective configuration: defaults, then the config
// file and .env, then the environment, then command-line flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	dir, err := getConfigDir()
	if err != nil {
		return err
	}

	c, err := config.Load(dir)
	if err != nil {
		return err
	}

	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}

	logging.SetDefaultCLILogger(c.LogLevel)
	cfg = c
	return nil
}

// getConfigDir returns the config directory, using the flag value or default
func getConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return dir, nil
}

// getDBPath returns the database path from the effective configuration or
// the default location.
func getDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Create .lexcov directory if it doesn't exist
	lexcovDir := filepath.Join(home, ".lexcov")
	if err := os.MkdirAll(lexcovDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create lexcov directory: %w", err)
	}

	return filepath.Join(lexcovDir, "lexcov.db"), nil
}
