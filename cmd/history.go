package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/ui/layout"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past drills and overall stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		words, _ := cmd.Flags().GetBool("words")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		repo := st.HistoryRepo()

		if words {
			return printWordStats(ctx, repo, limit)
		}

		stats, err := repo.Stats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if stats.Sessions == 0 {
			fmt.Println("No drills recorded yet.")
			return nil
		}

		fmt.Printf("Drills:        %d (%d completed)\n", stats.Sessions, stats.CompletedSessions)
		fmt.Printf("Answers:       %d (%d correct, %.0f%%)\n", stats.Answers, stats.Correct, stats.Accuracy*100)
		fmt.Printf("Mean accuracy: %.0f%% per completed drill\n", stats.MeanSessionAccuracy*100)
		fmt.Printf("Median answer: %.1fs\n", stats.MedianAnswerTime.Seconds())
		fmt.Printf("Practice time: %s\n", layout.FormatDuration(stats.TotalPractice))
		fmt.Println()

		sessions, err := repo.RecentSessions(ctx, limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		fmt.Printf("%-16s  %-17s  %-11s  %7s  %6s  %5s\n",
			"Started", "Kind", "Status", "Score", "Acc", "Time")
		fmt.Println(strings.Repeat("─", 72))
		for _, s := range sessions {
			fmt.Printf("%-16s  %-17s  %-11s  %3d/%-3d  %5.0f%%  %5s\n",
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				drill.Kind(s.Kind).DisplayName(),
				s.Status,
				s.Correct, s.Questions,
				s.Accuracy()*100,
				layout.FormatDuration(s.TotalTime),
			)
		}
		return nil
	},
}

func printWordStats(ctx context.Context, repo store.HistoryRepo, limit int) error {
	stats, err := repo.WordStats(ctx, limit)
	if err != nil {
		return fmt.Errorf("query word stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("No answers recorded yet.")
		return nil
	}

	fmt.Printf("%-18s  %8s  %7s  %5s  %s\n", "Word", "Attempts", "Correct", "Acc", "Last seen")
	fmt.Println(strings.Repeat("─", 64))
	for _, w := range stats {
		fmt.Printf("%-18s  %8d  %7d  %4.0f%%  %s\n",
			truncate(w.Word, 18), w.Attempts, w.Correct, w.Accuracy()*100,
			w.LastSeen.Local().Format("2006-01-02"))
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of rows to show")
	historyCmd.Flags().Bool("words", false, "Show per-word totals, weakest first")
}
