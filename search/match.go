package search

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// DefaultThreshold is the fuzziness cutoff: only matches scoring at or
// below it (0 best, 1 worst) are returned.
const DefaultThreshold = 0.4

// Candidate is the {title, url} record shape the matcher searches over.
type Candidate struct {
	Title string
	URL   string
}

// Match points back into the candidate slice with a relevance score in
// [0, 1], lower = better.
type Match struct {
	Index int
	Score float64
}

// Matcher scores candidates against a query on their Title and URL keys.
// The better-scoring key wins per candidate. Results come back best-first.
type Matcher struct {
	Threshold float64
}

func NewMatcher() *Matcher {
	return &Matcher{Threshold: DefaultThreshold}
}

type candidateKey struct {
	items []Candidate
	url   bool
}

func (s candidateKey) Len() int { return len(s.items) }

func (s candidateKey) String(i int) string {
	if s.url {
		return s.items[i].URL
	}
	return s.items[i].Title
}

// Match fuzzy-searches items and returns the candidates within the
// threshold, ordered by ascending score then original index. An empty
// query matches nothing.
func (m *Matcher) Match(query string, items []Candidate) []Match {
	if query == "" || len(items) == 0 {
		return nil
	}

	// sahilm/fuzzy scores are unbounded ints (higher = better) and charge
	// -1 per unmatched rune, which would sink every match inside a long
	// title or URL. Cancel that length penalty, then normalize against the
	// query's self-match score to get the 0-to-1, lower-is-better scale
	// the engine works with.
	self := fuzzy.Find(query, []string{query})
	selfScore := 1
	if len(self) > 0 && self[0].Score > selfScore {
		selfScore = self[0].Score
	}

	best := make(map[int]int)
	for _, key := range []candidateKey{
		{items: items},
		{items: items, url: true},
	} {
		for _, fm := range fuzzy.FindFrom(query, key) {
			adjusted := fm.Score + len([]rune(fm.Str)) - len(fm.MatchedIndexes)
			if cur, ok := best[fm.Index]; !ok || adjusted > cur {
				best[fm.Index] = adjusted
			}
		}
	}

	var matches []Match
	for idx, raw := range best {
		score := 1 - float64(raw)/float64(selfScore)
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		if score > m.Threshold {
			continue
		}
		matches = append(matches, Match{Index: idx, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score < matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	return matches
}
