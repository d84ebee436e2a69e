package vocab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ErrInvalidEntry is returned when an entry fails validation.
var ErrInvalidEntry = errors.New("invalid vocabulary entry")

// Entry is one practice-eligible vocabulary item. Entries are read-only once
// loaded; the drill engine never mutates them.
type Entry struct {
	ID         string `yaml:"id" json:"id"`
	Word       string `yaml:"word" json:"word"`
	Definition string `yaml:"definition" json:"definition"`
	Example    string `yaml:"example,omitempty" json:"example,omitempty"`
	Category   string `yaml:"category,omitempty" json:"category,omitempty"`
	// Frequency is a practice score. Lower means the word needs more practice.
	Frequency int `yaml:"frequency" json:"frequency"`

	// Origin is set on entries that were generated from a seed word.
	Origin *Origin `yaml:"origin,omitempty" json:"origin,omitempty"`
}

// Origin links a generated entry back to the word it was expanded from.
type Origin struct {
	Seed         string `yaml:"seed" json:"seed"`
	Relationship string `yaml:"relationship" json:"relationship"`
}

// Related returns the entries expanded from seed, ignoring case.
func Related(entries []Entry, seed string) []Entry {
	seed = strings.TrimSpace(seed)
	return lo.Filter(entries, func(e Entry, _ int) bool {
		return e.Origin != nil && strings.EqualFold(e.Origin.Seed, seed)
	})
}

// Validate checks a list of entries. IDs must be unique, and every entry needs
// a word and a definition.
func Validate(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidEntry, i)
		}
		if strings.TrimSpace(e.Word) == "" {
			return fmt.Errorf("%w: entry %q has no word", ErrInvalidEntry, e.ID)
		}
		if strings.TrimSpace(e.Definition) == "" {
			return fmt.Errorf("%w: entry %q (%s) has no definition", ErrInvalidEntry, e.ID, e.Word)
		}
		if e.Frequency < 0 {
			return fmt.Errorf("%w: entry %q (%s) has negative frequency %d", ErrInvalidEntry, e.ID, e.Word, e.Frequency)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidEntry, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// idNamespace scopes the name-based UUIDs derived from words.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/abhisek/wordiz/words"))

// WordID returns the stable ID for word. Case and surrounding whitespace are
// ignored, so a deck without explicit IDs keeps the same IDs across loads.
func WordID(word string) string {
	key := strings.ToLower(strings.TrimSpace(word))
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// AssignIDs gives every entry without an ID one derived from its word.
func AssignIDs(entries []Entry) []Entry {
	return lo.Map(entries, func(e Entry, _ int) Entry {
		if strings.TrimSpace(e.ID) == "" {
			e.ID = WordID(e.Word)
		}
		return e
	})
}

// Merge appends added entries to existing ones, skipping any whose word
// (case-insensitive) is already present. It returns the merged list and the
// number of entries actually added.
func Merge(existing, added []Entry) ([]Entry, int) {
	words := lo.SliceToMap(existing, func(e Entry) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(e.Word)), struct{}{}
	})

	merged := make([]Entry, len(existing), len(existing)+len(added))
	copy(merged, existing)

	n := 0
	for _, e := range added {
		key := strings.ToLower(strings.TrimSpace(e.Word))
		if _, ok := words[key]; ok || key == "" {
			continue
		}
		words[key] = struct{}{}
		merged = append(merged, e)
		n++
	}
	return merged, n
}

// Categories returns the distinct categories of the given entries, in first-seen order.
func Categories(entries []Entry) []string {
	cats := lo.FilterMap(entries, func(e Entry, _ int) (string, bool) {
		return e.Category, e.Category != ""
	})
	return lo.Uniq(cats)
}
