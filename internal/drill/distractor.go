package drill

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/abhisek/wordiz/internal/vocab"
)

// FrequencyWindow is the maximum frequency difference (exclusive) for an
// entry from another category to count as a plausible distractor.
const FrequencyWindow = 20

// SelectDistractors picks up to count plausible wrong answers for target.
// Candidates share the target's category or have a frequency within
// FrequencyWindow of it. The target itself is never returned. When fewer
// candidates qualify, all of them are returned in random order.
func SelectDistractors(target vocab.Entry, pool []vocab.Entry, count int, rng *rand.Rand) []vocab.Entry {
	if count <= 0 {
		return nil
	}

	candidates := lo.Filter(pool, func(e vocab.Entry, _ int) bool {
		return e.ID != target.ID && plausible(target, e)
	})

	// Partial Fisher-Yates: the first n slots become a uniform sample.
	n := min(count, len(candidates))
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:n]
}

func plausible(target, e vocab.Entry) bool {
	if target.Category != "" && e.Category == target.Category {
		return true
	}
	diff := e.Frequency - target.Frequency
	if diff < 0 {
		diff = -diff
	}
	return diff < FrequencyWindow
}
