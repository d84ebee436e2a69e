package drill

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a question kind is not recognised.
var ErrUnknownKind = errors.New("unknown question kind")

// Kind identifies the question variant used for a whole session.
type Kind string

const (
	KindDefinitionMatch Kind = "definition-match"
	KindFreeRecall      Kind = "free-recall"
	KindMultipleChoice  Kind = "multiple-choice"
	KindFillInBlank     Kind = "fill-in-blank"
)

// Kinds returns every supported kind in menu order.
func Kinds() []Kind {
	return []Kind{KindMultipleChoice, KindDefinitionMatch, KindFillInBlank, KindFreeRecall}
}

// ParseKind converts user input such as "fill_in_blank" or "Free-Recall" to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the four supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDefinitionMatch, KindFreeRecall, KindMultipleChoice, KindFillInBlank:
		return true
	}
	return false
}

// HasOptions reports whether questions of this kind carry a closed option list.
func (k Kind) HasOptions() bool {
	return k.Valid() && k != KindFreeRecall
}

func (k Kind) String() string {
	return string(k)
}

// DisplayName returns a human-friendly label.
func (k Kind) DisplayName() string {
	switch k {
	case KindDefinitionMatch:
		return "Definition Match"
	case KindFreeRecall:
		return "Free Recall"
	case KindMultipleChoice:
		return "Multiple Choice"
	case KindFillInBlank:
		return "Fill in the Blank"
	default:
		return string(k)
	}
}

// Instruction returns the short task description shown above a prompt.
func (k Kind) Instruction() string {
	switch k {
	case KindDefinitionMatch:
		return "Which word matches this definition?"
	case KindFreeRecall:
		return "Type the word for this definition."
	case KindMultipleChoice:
		return "Pick the correct definition."
	case KindFillInBlank:
		return "Complete the sentence."
	default:
		return ""
	}
}
