package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/config"
	"github.com/abhisek/wordiz/internal/logging"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

var rootCmd = &cobra.Command{
	Use:          "wordiz",
	Short:        "Vocabulary drills in the terminal",
	Long:         "Wordiz is a terminal vocabulary trainer with timed drills, hints and training history.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/wordiz/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WORDIZ_DB env var)")
	rootCmd.PersistentFlags().String("words", "", "Path to a YAML or JSON word deck (default: built-in starter deck)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig reads the config file and environment, then applies the
// --db and --words flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	if p, _ := cmd.Flags().GetString("words"); p != "" {
		cfg.Words.File = p
	}
	return cfg, nil
}

// newLogger builds the command logger. Output goes to stderr unless a log
// file is configured.
func newLogger(cfg *config.Config) (*logrus.Logger, io.Closer, error) {
	return logging.New(cfg.Log, os.Stderr)
}

// resolveDBPath returns the configured database path or the default one.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// loadDeck returns the configured deck, or the starter deck when none is set.
func loadDeck(cfg *config.Config) (*vocab.Deck, error) {
	if cfg.Words.File == "" {
		return vocab.Starter()
	}
	return vocab.LoadFile(cfg.Words.File)
}
