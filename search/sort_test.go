package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestSortRelevanceKeepsOrder(t *testing.T) {
	now := testNow
	results := []Result{
		{ID: "a", AccessCount: 1},
		{ID: "b", AccessCount: 100, LastAccessed: now.UnixMilli()},
		{ID: "c"},
	}
	SortResults(results, SortRelevance, now)
	assert.Equal(t, []string{"a", "b", "c"}, ids(results))
}

func TestSortUsageRecencySplit(t *testing.T) {
	now := testNow
	results := []Result{
		// Old but heavily used.
		{ID: "old-heavy", AccessCount: 500, LastAccessed: now.Add(-72 * time.Hour).UnixMilli()},
		// Touched an hour ago.
		{ID: "fresh", AccessCount: 1, LastAccessed: now.Add(-time.Hour).UnixMilli()},
		// Touched ten minutes ago.
		{ID: "freshest", AccessCount: 1, LastAccessed: now.Add(-10 * time.Minute).UnixMilli()},
		// Old and lightly used.
		{ID: "old-light", AccessCount: 3, LastAccessed: now.Add(-72 * time.Hour).UnixMilli()},
	}
	SortResults(results, SortUsage, now)
	assert.Equal(t, []string{"freshest", "fresh", "old-heavy", "old-light"}, ids(results))
}

func TestSortSmartTiers(t *testing.T) {
	now := testNow
	results := []Result{
		// Beyond a week: ranked by raw count.
		{ID: "ancient-heavy", AccessCount: 900, LastAccessed: now.Add(-30 * 24 * time.Hour).UnixMilli()},
		// Within a week: composite frequency/recency score.
		{ID: "week-heavy", AccessCount: 50, LastAccessed: now.Add(-6 * 24 * time.Hour).UnixMilli()},
		{ID: "week-light", AccessCount: 1, LastAccessed: now.Add(-2 * 24 * time.Hour).UnixMilli()},
		// Within a day: most recent first regardless of count.
		{ID: "today-light", AccessCount: 1, LastAccessed: now.Add(-time.Hour).UnixMilli()},
		{ID: "today-heavy", AccessCount: 80, LastAccessed: now.Add(-5 * time.Hour).UnixMilli()},
		{ID: "ancient-light", AccessCount: 2, LastAccessed: now.Add(-29 * 24 * time.Hour).UnixMilli()},
	}
	SortResults(results, SortSmart, now)
	assert.Equal(t, []string{
		"today-light", "today-heavy",
		"week-heavy", "week-light",
		"ancient-heavy", "ancient-light",
	}, ids(results))
}

func TestSortSmartWeekTierComposite(t *testing.T) {
	now := testNow
	// Same recency, different counts: count decides.
	results := []Result{
		{ID: "light", AccessCount: 2, LastAccessed: now.Add(-3 * 24 * time.Hour).UnixMilli()},
		{ID: "heavy", AccessCount: 20, LastAccessed: now.Add(-3 * 24 * time.Hour).UnixMilli()},
	}
	SortResults(results, SortSmart, now)
	assert.Equal(t, []string{"heavy", "light"}, ids(results))

	// Equal counts: fresher wins.
	results = []Result{
		{ID: "staler", AccessCount: 5, LastAccessed: now.Add(-5 * 24 * time.Hour).UnixMilli()},
		{ID: "fresher", AccessCount: 5, LastAccessed: now.Add(-2 * 24 * time.Hour).UnixMilli()},
	}
	SortResults(results, SortSmart, now)
	assert.Equal(t, []string{"fresher", "staler"}, ids(results))
}

func TestSortIsStableOnTies(t *testing.T) {
	now := testNow
	at := now.Add(-3 * 24 * time.Hour).UnixMilli()
	results := []Result{
		{ID: "first", AccessCount: 4, LastAccessed: at},
		{ID: "second", AccessCount: 4, LastAccessed: at},
		{ID: "third", AccessCount: 4, LastAccessed: at},
	}
	for _, method := range []SortMethod{SortSmart, SortUsage, SortRelevance} {
		SortResults(results, method, now)
		require.Equal(t, []string{"first", "second", "third"}, ids(results), "method %v", method)
	}
}

func TestParseSortMethod(t *testing.T) {
	assert.Equal(t, SortSmart, ParseSortMethod("smart"))
	assert.Equal(t, SortRelevance, ParseSortMethod("relevance"))
	assert.Equal(t, SortUsage, ParseSortMethod("usage"))
	assert.Equal(t, SortSmart, ParseSortMethod("bogus"))
	assert.Equal(t, SortSmart, ParseSortMethod(""))
}
