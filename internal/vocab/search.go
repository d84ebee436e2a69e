package vocab

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Match ranks, best first.
const (
	rankExact = iota
	rankPrefix
	rankWord
	rankSeed
	rankText
)

type searchHit struct {
	entry Entry
	rank  int
}

// Search returns the entries matching query, ignoring case. Exact word
// matches come first, then word prefixes, then other word matches, then
// entries expanded from query, then matches in the definition, example or
// category. Ties keep deck order. A blank query matches nothing.
func Search(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	hits := lo.FilterMap(entries, func(e Entry, _ int) (searchHit, bool) {
		rank, ok := searchRank(e, q)
		return searchHit{entry: e, rank: rank}, ok
	})
	slices.SortStableFunc(hits, func(a, b searchHit) int {
		return cmp.Compare(a.rank, b.rank)
	})
	return lo.Map(hits, func(h searchHit, _ int) Entry { return h.entry })
}

func searchRank(e Entry, q string) (int, bool) {
	word := strings.ToLower(e.Word)
	switch {
	case word == q:
		return rankExact, true
	case strings.HasPrefix(word, q):
		return rankPrefix, true
	case strings.Contains(word, q):
		return rankWord, true
	case e.Origin != nil && strings.ToLower(e.Origin.Seed) == q:
		return rankSeed, true
	}
	for _, text := range []string{e.Definition, e.Example, e.Category} {
		if strings.Contains(strings.ToLower(text), q) {
			return rankText, true
		}
	}
	return 0, false
}
