package expand

import (
	"fmt"
	"strings"
)

const expandInstructions = `You are a vocabulary expansion assistant for adult English learners.

Rules:
- Given a seed word and a relationship type, suggest English words that have that relationship to the seed.
- Never return the seed word itself or any word from the "already known" list.
- Definitions must be short, plain English and must not contain the word being defined.
- Each example sentence must contain the word exactly as written in the "word" field.
- Prefer words a learner is likely to meet in reading or conversation.
- Choose the closest category from the allowed list.`

// buildExpandInput renders the per-request part of an expansion prompt.
func buildExpandInput(seed string, rel Relationship, count int, known []string, maxKnown int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Seed word: %q\n", seed)
	fmt.Fprintf(&b, "Relationship: %s\n", rel.Describe())
	fmt.Fprintf(&b, "Number of words: %d\n", count)

	b.WriteString("\nAlready known:\n")
	b.WriteString(buildKnown(known, maxKnown))

	return b.String()
}

// buildKnown lists words to avoid, keeping the most recent max entries.
func buildKnown(known []string, max int) string {
	if len(known) == 0 {
		return "None"
	}
	if max > 0 && len(known) > max {
		known = known[len(known)-max:]
	}
	return strings.Join(known, ", ")
}

const compareInstructions = `You help adult English learners tell two words apart.

Rules:
- Explain in plain English, in short sentences.
- List real similarities and real differences in meaning, tone or typical use.
- If the words are near synonyms, focus on the contexts where only one fits.
- Each example sentence must contain its word exactly as written.`

// buildCompareInput renders the per-request part of a comparison prompt.
// Definitions from the learner's deck are included when known.
func buildCompareInput(first, second string, defs map[string]string) string {
	var b strings.Builder
	for i, w := range []string{first, second} {
		fmt.Fprintf(&b, "Word %d: %q\n", i+1, w)
		if d := defs[strings.ToLower(w)]; d != "" {
			fmt.Fprintf(&b, "Deck definition: %s\n", d)
		}
	}
	return b.String()
}
