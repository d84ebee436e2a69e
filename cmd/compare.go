package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/expand"
)

var compareCmd = &cobra.Command{
	Use:   "compare <word> <word>",
	Short: "Explain how two words differ, using the configured LLM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, closer, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		deck, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("load words: %w", err)
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, ctx, cancel, err := openLLM(cmd.Context(), st.EventRepo(), logger)
		if err != nil {
			return err
		}
		defer cancel()

		svc := expand.New(provider, expand.DefaultConfig(), logger)
		c, err := svc.Compare(ctx, args[0], args[1], deck.Entries)
		if err != nil {
			return err
		}

		fmt.Printf("%s vs %s\n\n", c.First, c.Second)
		fmt.Println(c.Summary)
		printBullets("Alike", c.Similarities)
		printBullets("Different", c.Differences)
		fmt.Printf("\n  %s: %s\n", c.First, c.FirstExample)
		fmt.Printf("  %s: %s\n", c.Second, c.SecondExample)
		return nil
	},
}

func printBullets(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s\n", heading)
	for _, it := range items {
		fmt.Printf("  • %s\n", it)
	}
}
