package drill

import (
	"time"

	"github.com/abhisek/wordiz/internal/vocab"
)

// Question is a generated drill item. It is created once at session start and
// never modified afterwards. The kind-specific payload lives in Body.
type Question struct {
	ID     string
	Target vocab.Entry

	// Answer is the canonical correct answer.
	Answer string

	// TimeLimit is zero when the question is untimed.
	TimeLimit time.Duration

	Body Body
}

// Body is the kind-specific part of a question. The set of implementations is
// closed: DefinitionMatch, FreeRecall, MultipleChoice and FillInBlank.
type Body interface {
	Kind() Kind
	isBody()
}

// DefinitionMatch shows a definition and offers candidate words.
type DefinitionMatch struct {
	Options []string
}

// FreeRecall shows a definition and expects the word typed from memory.
type FreeRecall struct{}

// MultipleChoice shows a word and offers candidate definitions.
type MultipleChoice struct {
	Options []string
}

// FillInBlank shows the example sentence with the word blanked out.
type FillInBlank struct {
	Options  []string
	Sentence string
	// Masked is false when the target word was not found in its example.
	Masked bool
}

func (DefinitionMatch) Kind() Kind { return KindDefinitionMatch }
func (FreeRecall) Kind() Kind      { return KindFreeRecall }
func (MultipleChoice) Kind() Kind  { return KindMultipleChoice }
func (FillInBlank) Kind() Kind     { return KindFillInBlank }

func (DefinitionMatch) isBody() {}
func (FreeRecall) isBody()      {}
func (MultipleChoice) isBody()  {}
func (FillInBlank) isBody()     {}

// Kind returns the question kind, or "" for a question without a body.
func (q Question) Kind() Kind {
	if q.Body == nil {
		return ""
	}
	return q.Body.Kind()
}

// Options returns the answer options, or nil for free recall.
func (q Question) Options() []string {
	switch b := q.Body.(type) {
	case DefinitionMatch:
		return b.Options
	case MultipleChoice:
		return b.Options
	case FillInBlank:
		return b.Options
	default:
		return nil
	}
}

// Prompt returns the text the learner answers against.
func (q Question) Prompt() string {
	switch b := q.Body.(type) {
	case DefinitionMatch:
		return q.Target.Definition
	case FreeRecall:
		if q.Target.Example == "" {
			return q.Target.Definition
		}
		example, _ := MaskWord(q.Target.Example, q.Target.Word)
		return q.Target.Definition + "\n\n" + example
	case MultipleChoice:
		return q.Target.Word
	case FillInBlank:
		return b.Sentence
	default:
		return ""
	}
}
