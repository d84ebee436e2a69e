package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/store"
)

var llmPurposes = []string{string(llm.PurposeExpand), string(llm.PurposeCompare)}

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model requests made by expand and compare",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model requests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		if purpose != "" && !lo.Contains(llmPurposes, purpose) {
			return fmt.Errorf("unknown purpose %q (want one of %s)", purpose, strings.Join(llmPurposes, ", "))
		}

		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			opts := store.QueryOpts{Limit: limit, Purpose: purpose}
			if failedOnly {
				// Failures are filtered after the query, so read past the limit.
				opts.Limit = 0
			}
			events, err := s.EventRepo().QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query requests: %w", err)
			}
			if failedOnly {
				events = lo.Filter(events, func(e store.LLMEventRecord, _ int) bool { return !e.Success })
				if limit > 0 && len(events) > limit {
					events = events[:limit]
				}
			}
			if len(events) == 0 {
				fmt.Println("No model requests recorded.")
				return nil
			}

			fmt.Printf("%5s  %-9s  %-12s  %-26s  %7s  %7s  %s\n",
				"ID", "When", "Purpose", "Model", "Tokens", "Latency", "Result")
			fmt.Println(strings.Repeat("─", 90))
			now := time.Now()
			for _, e := range events {
				fmt.Printf("%5d  %-9s  %-12s  %-26s  %7d  %6dms  %s\n",
					e.ID,
					ago(now, e.Timestamp),
					e.Purpose,
					truncate(e.Model, 26),
					e.InputTokens+e.OutputTokens,
					e.LatencyMs,
					requestResult(e),
				)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one model request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("request ID must be a positive number, got %q", args[0])
		}

		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			e, err := s.EventRepo().GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get request: %w", err)
			}
			if e == nil {
				return fmt.Errorf("no model request with ID %d", id)
			}

			fmt.Printf("Request %d, %s via %s (%s)\n", e.ID, e.Purpose, e.Provider, e.Model)
			fmt.Printf("Sent %s, took %dms, %d tokens in and %d out\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.LatencyMs, e.InputTokens, e.OutputTokens)
			fmt.Println("Result:", requestResult(*e))

			section("Prompt", e.RequestBody)
			section("Reply", prettyJSON(e.ResponseBody))
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Total model usage per purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			usage, err := s.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(usage) == 0 {
				fmt.Println("No model requests recorded.")
				return nil
			}

			fmt.Printf("%-12s  %6s  %9s  %9s  %8s\n", "Purpose", "Calls", "Tokens in", "Tokens out", "Avg ms")
			fmt.Println(strings.Repeat("─", 54))
			for _, u := range usage {
				fmt.Printf("%-12s  %6d  %9d  %9d  %8d\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			}
			calls := lo.SumBy(usage, func(u store.PurposeUsage) int { return u.Calls })
			tokens := lo.SumBy(usage, func(u store.PurposeUsage) int { return u.InputTokens + u.OutputTokens })
			fmt.Printf("\n%d requests, %d tokens in total.\n", calls, tokens)
			return nil
		})
	},
}

// withStore loads config for cmd, opens the history database and runs fn.
func withStore(cmd *cobra.Command, fn func(context.Context, *store.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cmd.Context(), s)
}

func requestResult(e store.LLMEventRecord) string {
	if e.Success {
		return "ok"
	}
	return "failed: " + truncate(e.ErrorMessage, 40)
}

func section(title, body string) {
	fmt.Printf("\n── %s %s\n", title, strings.Repeat("─", 56-len(title)))
	if strings.TrimSpace(body) == "" {
		fmt.Println("(not recorded)")
		return
	}
	fmt.Println(strings.TrimRight(body, "\n"))
}

// prettyJSON indents body when it is JSON and returns it unchanged otherwise.
func prettyJSON(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}

// ago renders t relative to now at a coarse grain.
func ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return t.Local().Format("Jan 02")
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose ("+strings.Join(llmPurposes, " or ")+")")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
