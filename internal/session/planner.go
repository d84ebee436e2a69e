package session

import (
	"math/rand/v2"
	"sort"

	"github.com/samber/lo"

	"github.com/abhisek/wordiz/internal/vocab"
)

// SelectWords picks up to count entries for a session, lowest frequency
// first so that words needing practice come up more often. Entries with
// equal frequency are ordered uniformly at random. Duplicate IDs are dropped.
// The pool itself is not reordered.
func SelectWords(pool []vocab.Entry, count int, rng *rand.Rand) []vocab.Entry {
	words := lo.UniqBy(pool, func(e vocab.Entry) string {
		return e.ID
	})

	// Shuffle first so the stable sort leaves ties in random order.
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Frequency < words[j].Frequency
	})

	if count < len(words) {
		words = words[:count]
	}
	return words
}
