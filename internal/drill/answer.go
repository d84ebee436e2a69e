package drill

import (
	"strings"

	"github.com/agext/levenshtein"
)

// MaxTypoDistance is the edit distance still accepted for free-recall answers.
const MaxTypoDistance = 1

// IsCorrect decides whether submitted matches canonical for the given kind.
// Option-based kinds need an exact match. Free recall ignores case and
// surrounding whitespace and tolerates a single-character typo. A blank
// submission, which is how a timeout is recorded, is never correct.
func IsCorrect(kind Kind, submitted, canonical string) bool {
	if strings.TrimSpace(submitted) == "" {
		return false
	}
	if kind != KindFreeRecall {
		return submitted == canonical
	}

	a, b := normalize(submitted), normalize(canonical)
	return a == b || EditDistance(a, b) <= MaxTypoDistance
}

// EditDistance returns the Levenshtein distance between a and b, counting
// single-rune insertions, deletions and substitutions at cost 1.
func EditDistance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
