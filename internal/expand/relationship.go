package expand

import (
	"fmt"
	"strings"
)

// Relationship is how expanded words relate to the seed word.
type Relationship string

const (
	RelSynonym  Relationship = "synonym"
	RelAntonym  Relationship = "antonym"
	RelContext  Relationship = "context"
	RelMetaphor Relationship = "metaphor"
	RelRelated  Relationship = "related"
)

var relationshipDescriptions = map[Relationship]string{
	RelSynonym:  "synonyms (words with similar meanings)",
	RelAntonym:  "antonyms (words with opposite meanings)",
	RelContext:  "contextually related words (words commonly used in similar situations)",
	RelMetaphor: "metaphorically related words (words connected through imagery or symbolism)",
	RelRelated:  "related words (words from the same semantic field or topic)",
}

// Relationships returns every relationship in display order.
func Relationships() []Relationship {
	return []Relationship{RelSynonym, RelAntonym, RelContext, RelMetaphor, RelRelated}
}

// ParseRelationship parses a case-insensitive relationship name.
func ParseRelationship(s string) (Relationship, error) {
	r := Relationship(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := relationshipDescriptions[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRelationship, s)
	}
	return r, nil
}

// Describe returns the phrase used in prompts.
func (r Relationship) Describe() string {
	return relationshipDescriptions[r]
}
