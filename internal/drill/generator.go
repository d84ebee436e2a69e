package drill

import (
	"fmt"
	"io"
	"math/rand/v2"
	"regexp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/vocab"
)

// Blank replaces the target word in fill-in-blank sentences.
const Blank = "_____"

// Generator builds questions from vocabulary entries.
type Generator struct {
	rng    *rand.Rand
	cfg    Config
	logger logrus.FieldLogger
	newID  func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithConfig overrides the default generation settings.
func WithConfig(cfg Config) Option {
	return func(g *Generator) { g.cfg = cfg }
}

// WithLogger sets the logger used to report data problems.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithIDFunc replaces the question ID source.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

// NewGenerator creates a Generator drawing all randomness from rng.
func NewGenerator(rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		rng:    rng,
		cfg:    DefaultConfig(),
		logger: discardLogger(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the generator's settings.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate builds one question of the given kind per word, in input order.
// Distractors are drawn from words.
func (g *Generator) Generate(kind Kind, words []vocab.Entry) ([]Question, error) {
	return g.GenerateFrom(kind, words, words)
}

// GenerateFrom is like Generate but draws distractors from pool.
func (g *Generator) GenerateFrom(kind Kind, words, pool []vocab.Entry) ([]Question, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	questions := make([]Question, 0, len(words))
	for _, w := range words {
		questions = append(questions, g.build(kind, w, pool))
	}
	return questions, nil
}

func (g *Generator) build(kind Kind, target vocab.Entry, pool []vocab.Entry) Question {
	q := Question{
		ID:        g.newID(),
		Target:    target,
		Answer:    target.Word,
		TimeLimit: g.cfg.TimeLimits[kind],
	}

	switch kind {
	case KindDefinitionMatch:
		q.Body = DefinitionMatch{Options: g.options(target, pool, wordOf)}
	case KindFreeRecall:
		q.Body = FreeRecall{}
	case KindMultipleChoice:
		q.Answer = target.Definition
		q.Body = MultipleChoice{Options: g.options(target, pool, definitionOf)}
	case KindFillInBlank:
		sentence, masked := MaskWord(target.Example, target.Word)
		if !masked {
			g.logger.WithFields(logrus.Fields{
				"word_id": target.ID,
				"word":    target.Word,
			}).Warn("target word not found in example sentence, leaving it unmasked")
		}
		q.Body = FillInBlank{
			Options:  g.options(target, pool, wordOf),
			Sentence: sentence,
			Masked:   masked,
		}
	}
	return q
}

// options returns the target's field plus the distractors' fields, shuffled.
func (g *Generator) options(target vocab.Entry, pool []vocab.Entry, field func(vocab.Entry) string) []string {
	distractors := SelectDistractors(target, pool, g.cfg.DistractorCount, g.rng)

	opts := make([]string, 0, len(distractors)+1)
	opts = append(opts, field(target))
	for _, d := range distractors {
		opts = append(opts, field(d))
	}
	g.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	return opts
}

func wordOf(e vocab.Entry) string       { return e.Word }
func definitionOf(e vocab.Entry) string { return e.Definition }

// MaskWord replaces the first case-insensitive whole-word occurrence of word
// in sentence with Blank. It reports whether a replacement was made; when it
// was not, the sentence is returned unchanged.
func MaskWord(sentence, word string) (string, bool) {
	if word == "" {
		return sentence, false
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	loc := re.FindStringIndex(sentence)
	if loc == nil {
		return sentence, false
	}
	return sentence[:loc[0]] + Blank + sentence[loc[1]:], true
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
