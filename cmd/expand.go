package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/expand"
	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

var expandCmd = &cobra.Command{
	Use:   "expand <seed>",
	Short: "Generate related words with an LLM and add them to the deck",
	Long: "Expand asks the configured LLM for words related to <seed> and merges them\n" +
		"into the deck file given by --words. Use --dry-run to only print them.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		seed := args[0]

		relFlag, _ := cmd.Flags().GetString("relation")
		count, _ := cmd.Flags().GetInt("count")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		rel, err := expand.ParseRelationship(relFlag)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Words.File == "" && !dryRun {
			return fmt.Errorf("no deck file to update: pass --words or use --dry-run")
		}

		logger, closer, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		deck, err := loadOrCreateDeck(cfg.Words.File)
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, ctx, cancel, err := openLLM(ctx, st.EventRepo(), logger)
		if err != nil {
			return err
		}
		defer cancel()

		known := lo.Map(deck.Entries, func(e vocab.Entry, _ int) string { return e.Word })
		svc := expand.New(provider, expand.DefaultConfig(), logger)

		fmt.Printf("Asking for %d %s words for %q...\n", count, rel, seed)
		entries, err := svc.Expand(ctx, seed, rel, count, known...)
		if err != nil {
			return err
		}

		fmt.Println()
		for _, e := range entries {
			fmt.Printf("  %-18s  %s\n", e.Word, e.Definition)
		}
		fmt.Println()

		if dryRun {
			fmt.Printf("%d words (dry run, deck not changed)\n", len(entries))
			return nil
		}

		merged, added := vocab.Merge(deck.Entries, entries)
		deck.Entries = merged
		if err := vocab.SaveFile(cfg.Words.File, deck); err != nil {
			return fmt.Errorf("save deck: %w", err)
		}
		fmt.Printf("Added %d words to %s (%d total)\n", added, cfg.Words.File, len(deck.Entries))
		return nil
	},
}

// openLLM opens the configured provider and bounds ctx by its timeout.
func openLLM(ctx context.Context, events store.EventRepo, logger logrus.FieldLogger) (llm.Provider, context.Context, context.CancelFunc, error) {
	cfg := llm.ResolveConfig()
	provider, err := llm.Open(ctx, cfg, events, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	return provider, ctx, cancel, nil
}

// loadOrCreateDeck loads path, or returns an empty deck named after the file
// when it does not exist yet. An empty path yields an empty deck.
func loadOrCreateDeck(path string) (*vocab.Deck, error) {
	if path == "" {
		return &vocab.Deck{}, nil
	}
	deck, err := vocab.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return &vocab.Deck{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	return deck, nil
}

func init() {
	relations := lo.Map(expand.Relationships(), func(r expand.Relationship, _ int) string { return string(r) })

	expandCmd.Flags().StringP("relation", "r", string(expand.RelSynonym),
		"How new words relate to the seed ("+strings.Join(relations, ", ")+")")
	expandCmd.Flags().IntP("count", "n", 5, "Number of words to request")
	expandCmd.Flags().Bool("dry-run", false, "Print the words without saving them")
}
