package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/vocab"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Inspect the word deck",
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every word in the deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		deck, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("load words: %w", err)
		}

		category, _ := cmd.Flags().GetString("category")

		fmt.Printf("Deck: %s (%d words)\n\n", deck.Name, len(deck.Entries))
		fmt.Printf("%-18s  %-12s  %4s  %s\n", "Word", "Category", "Freq", "Definition")
		fmt.Println(strings.Repeat("─", 90))
		for _, e := range deck.Entries {
			if category != "" && !strings.EqualFold(e.Category, category) {
				continue
			}
			fmt.Printf("%-18s  %-12s  %4d  %s\n",
				truncate(e.Word, 18), truncate(e.Category, 12), e.Frequency, truncate(e.Definition, 50))
		}

		if cats := vocab.Categories(deck.Entries); len(cats) > 0 {
			fmt.Printf("\nCategories: %s\n", strings.Join(cats, ", "))
		}
		return nil
	},
}

var wordsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a deck file for errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Words.File = args[0]
		}
		if cfg.Words.File == "" {
			return fmt.Errorf("no deck file given: pass a path or set --words")
		}

		deck, err := vocab.LoadFile(cfg.Words.File)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d entries OK\n", cfg.Words.File, len(deck.Entries))
		return nil
	},
}

var wordsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find words by spelling, meaning or seed word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		deck, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("load words: %w", err)
		}

		hits := vocab.Search(deck.Entries, args[0])
		if len(hits) == 0 {
			fmt.Printf("No words match %q.\n", args[0])
			return nil
		}
		printEntries(hits)
		return nil
	},
}

var wordsRelatedCmd = &cobra.Command{
	Use:   "related <seed>",
	Short: "List words that were expanded from a seed word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		deck, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("load words: %w", err)
		}

		related := vocab.Related(deck.Entries, args[0])
		if len(related) == 0 {
			fmt.Printf("No words were expanded from %q. Try: wordiz expand %s\n", args[0], args[0])
			return nil
		}
		printEntries(related)
		return nil
	},
}

// printEntries prints entries with their origin, one per line.
func printEntries(entries []vocab.Entry) {
	fmt.Printf("%-18s  %-22s  %s\n", "Word", "From", "Definition")
	fmt.Println(strings.Repeat("─", 90))
	for _, e := range entries {
		from := "-"
		if e.Origin != nil {
			from = e.Origin.Relationship + " of " + e.Origin.Seed
		}
		fmt.Printf("%-18s  %-22s  %s\n", truncate(e.Word, 18), truncate(from, 22), truncate(e.Definition, 46))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func init() {
	wordsListCmd.Flags().StringP("category", "c", "", "Only list words in this category")

	wordsCmd.AddCommand(wordsListCmd)
	wordsCmd.AddCommand(wordsValidateCmd)
	wordsCmd.AddCommand(wordsSearchCmd)
	wordsCmd.AddCommand(wordsRelatedCmd)
}
