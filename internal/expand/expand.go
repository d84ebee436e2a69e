// Package expand grows a vocabulary deck by asking a language model for
// words related to a seed word.
package expand

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/vocab"
)

var (
	ErrNoWords             = errors.New("expansion returned no usable words")
	ErrUnknownRelationship = errors.New("unknown relationship")
	ErrEmptySeed           = errors.New("seed word is empty")
	ErrSameWord            = errors.New("cannot compare a word with itself")
)

// DefaultFrequency is the practice score given to new entries, mid-way so
// they are neither drilled first nor last.
const DefaultFrequency = 50

// Config controls expansion requests.
type Config struct {
	MaxTokens   int
	Temperature float64
	MaxCount    int // upper bound on words per request
	MaxKnown    int // words listed as "already known" in the prompt
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
		MaxCount:    20,
		MaxKnown:    200,
	}
}

// Service turns model output into vocabulary entries.
type Service struct {
	provider llm.Provider
	config   Config
	logger   logrus.FieldLogger
}

// New creates a Service. logger may be nil.
func New(provider llm.Provider, cfg Config, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{provider: provider, config: cfg, logger: logger}
}

type expansionOutput struct {
	Words []struct {
		Word       string `json:"word"`
		Definition string `json:"definition"`
		Example    string `json:"example"`
		Category   string `json:"category"`
	} `json:"words"`
}

// Expand asks for count words related to seed by rel. Words in known and the
// seed itself are filtered out case-insensitively, as are duplicates and
// entries missing a word or definition. At least one entry is returned or
// ErrNoWords.
func (s *Service) Expand(ctx context.Context, seed string, rel Relationship, count int, known ...string) ([]vocab.Entry, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, ErrEmptySeed
	}
	if _, ok := relationshipDescriptions[rel]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRelationship, rel)
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if s.config.MaxCount > 0 && count > s.config.MaxCount {
		count = s.config.MaxCount
	}

	c, err := s.provider.Complete(ctx, llm.Prompt{
		Purpose:      llm.PurposeExpand,
		Instructions: expandInstructions,
		Input:        buildExpandInput(seed, rel, count, known, s.config.MaxKnown),
		Schema:       ExpansionSchema,
		MaxTokens:    s.config.MaxTokens,
		Temperature:  s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM expansion failed: %w", err)
	}

	var raw expansionOutput
	if err := c.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	skip := lo.SliceToMap(known, func(w string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(w)), struct{}{}
	})
	skip[strings.ToLower(seed)] = struct{}{}

	entries := make([]vocab.Entry, 0, len(raw.Words))
	for _, w := range raw.Words {
		word := strings.TrimSpace(w.Word)
		key := strings.ToLower(word)
		if word == "" || strings.TrimSpace(w.Definition) == "" {
			s.logger.WithField("seed", seed).Debug("dropping incomplete expansion entry")
			continue
		}
		if _, dup := skip[key]; dup {
			continue
		}
		skip[key] = struct{}{}

		entry := vocab.Entry{
			ID:         vocab.WordID(word),
			Word:       word,
			Definition: strings.TrimSpace(w.Definition),
			Example:    strings.TrimSpace(w.Example),
			Category:   strings.TrimSpace(w.Category),
			Frequency:  DefaultFrequency,
			Origin:     &vocab.Origin{Seed: seed, Relationship: string(rel)},
		}
		if entry.Category == "" {
			entry.Category = string(rel)
		}
		entries = append(entries, entry)

		if len(entries) == count {
			break
		}
	}

	s.logger.WithFields(logrus.Fields{
		"seed":         seed,
		"relationship": rel,
		"requested":    count,
		"returned":     len(entries),
	}).Info("expanded vocabulary")

	if len(entries) == 0 {
		return nil, ErrNoWords
	}
	return entries, nil
}
