// Package hint produces progressively more revealing hints for free-recall
// questions.
package hint

import (
	"fmt"
	"strings"
)

// MaxHints is the number of hints a learner may request per question.
const MaxHints = 3

// FirstLevel is the level of the first hint requested on a question. Each
// further request goes one level deeper, so a learner sees levels 1 to 3.
// Level 0 is kept for callers that want the bare length.
const FirstLevel = 1

// LevelFor returns the level of the hint shown after used hints have already
// been requested on the same question.
func LevelFor(used int) int {
	return FirstLevel + used
}

// Mask hides an unrevealed letter.
const Mask = '_'

// Hint returns the hint for word at the given disclosure level:
//
//	0: the word length ("8 letters")
//	1: the first letter (Starts with "e")
//	2: first and last letter, masked in between ("e______t")
//	3: every even-indexed letter ("e_e_h_n_")
//
// Levels above 3 reveal the whole word; negative levels are treated as 0.
func Hint(word string, level int) string {
	runes := []rune(word)
	n := len(runes)

	switch {
	case level <= 0:
		if n == 1 {
			return "1 letter"
		}
		return fmt.Sprintf("%d letters", n)

	case level == 1:
		if n == 0 {
			return `Starts with ""`
		}
		return fmt.Sprintf("Starts with %q", string(runes[0]))

	case level == 2:
		if n <= 2 {
			return word
		}
		return string(runes[0]) + strings.Repeat(string(Mask), n-2) + string(runes[n-1])

	case level == 3:
		out := make([]rune, n)
		for i, r := range runes {
			if i%2 == 0 {
				out[i] = r
			} else {
				out[i] = Mask
			}
		}
		return string(out)

	default:
		return word
	}
}
