package expand

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Comparison contrasts two words.
type Comparison struct {
	First  string `json:"-"`
	Second string `json:"-"`

	Summary       string   `json:"summary"`
	Similarities  []string `json:"similarities"`
	Differences   []string `json:"differences"`
	FirstExample  string   `json:"first_example"`
	SecondExample string   `json:"second_example"`
}

// Compare asks how first and second are alike and how they differ. Deck
// entries for either word lend their definitions to the prompt so the answer
// matches the sense being practised.
func (s *Service) Compare(ctx context.Context, first, second string, deck []vocab.Entry) (*Comparison, error) {
	first, second = strings.TrimSpace(first), strings.TrimSpace(second)
	if first == "" || second == "" {
		return nil, ErrEmptySeed
	}
	if strings.EqualFold(first, second) {
		return nil, fmt.Errorf("%w: %q", ErrSameWord, first)
	}

	defs := lo.SliceToMap(deck, func(e vocab.Entry) (string, string) {
		return strings.ToLower(strings.TrimSpace(e.Word)), e.Definition
	})

	c, err := s.provider.Complete(ctx, llm.Prompt{
		Purpose:      llm.PurposeCompare,
		Instructions: compareInstructions,
		Input:        buildCompareInput(first, second, defs),
		Schema:       ComparisonSchema,
		MaxTokens:    s.config.MaxTokens,
		Temperature:  s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM comparison failed: %w", err)
	}

	var out Comparison
	if err := c.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	out.First, out.Second = first, second

	s.logger.WithFields(logrus.Fields{
		"first":  first,
		"second": second,
	}).Debug("compared words")
	return &out, nil
}
