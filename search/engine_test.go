package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	e := NewEngine(NewMatcher())
	e.Sort = SortRelevance
	return e
}

func githubTab() Tab {
	return Tab{ID: "tab-1", Title: "github", URL: "https://github.com"}
}

func githubBookmark() Bookmark {
	return Bookmark{ID: "bm-1", Title: "github", URL: "https://github.com/"}
}

func TestBuildResultsEmptyQueryListsOtherTabs(t *testing.T) {
	e := testEngine()
	tabs := []Tab{
		{ID: "t1", Title: "Current", URL: "https://current.example.com"},
		{ID: "t2", Title: "Other", URL: "https://other.example.com"},
	}

	results := e.BuildResults("", tabs, nil, "t1", testNow)

	require.Len(t, results, 1)
	assert.Equal(t, "t2", results[0].ID)
	assert.Equal(t, KindTab, results[0].Kind)
	assert.False(t, results[0].HasScore)
}

func TestBuildResultsWhitespaceQueryListsTabs(t *testing.T) {
	// All-mode input is not trimmed by the parser, so blankness is decided
	// here: spaces alone fall back to the tab listing, no synthetic rows.
	e := testEngine()
	tabs := []Tab{
		{ID: "t1", Title: "Current", URL: "https://current.example.com"},
		{ID: "t2", Title: "Other", URL: "https://other.example.com"},
	}

	results := e.BuildResults("   ", tabs, nil, "t1", testNow)

	require.Len(t, results, 1)
	assert.Equal(t, "t2", results[0].ID)
	assert.Equal(t, KindTab, results[0].Kind)
}

func TestBuildResultsGoogleMode(t *testing.T) {
	e := testEngine()

	assert.Empty(t, e.BuildResults("g:", nil, nil, "", testNow))

	results := e.BuildResults("g:cat pictures", nil, nil, "", testNow)
	require.Len(t, results, 1)
	assert.Equal(t, KindGoogle, results[0].Kind)
	assert.Equal(t, "https://www.google.com/search?q=cat+pictures", results[0].URL)
}

func TestBuildResultsBookmarksMode(t *testing.T) {
	e := testEngine()
	tabs := []Tab{githubTab()}
	bookmarks := []Bookmark{
		githubBookmark(),
		{ID: "bm-2", Title: "Weather", URL: "https://weather.example.com"},
	}

	assert.Empty(t, e.BuildResults("b:", tabs, bookmarks, "", testNow))

	results := e.BuildResults("b:github", tabs, bookmarks, "", testNow)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, KindBookmark, r.Kind, "bookmarks mode must only yield bookmarks")
	}
	assert.Equal(t, "bm-1", results[0].ID)
}

func TestBuildResultsTabWinsOverBookmark(t *testing.T) {
	e := testEngine()
	tabs := []Tab{githubTab()}
	bookmarks := []Bookmark{githubBookmark()}

	results := e.BuildResults("github", tabs, bookmarks, "", testNow)

	var merged []Result
	for _, r := range results {
		if NormalizeURL(r.URL) == "https://github.com" {
			merged = append(merged, r)
		}
	}
	require.Len(t, merged, 1, "tab and bookmark at the same URL must collapse")
	assert.Equal(t, KindTab, merged[0].Kind)
	assert.Equal(t, "tab-1", merged[0].ID)
	assert.True(t, merged[0].HasScore, "collapsed entry carries the bookmark match score")
}

func TestBuildResultsBookmarkCollapsesOntoUnmatchedTab(t *testing.T) {
	// The open-tab check scans the live tab list: even a tab whose text
	// never matched the query captures its bookmark.
	e := testEngine()
	tabs := []Tab{{ID: "tab-9", Title: "zzz", URL: "https://gh.example.com/x"}}
	bookmarks := []Bookmark{{ID: "bm-1", Title: "github", URL: "https://gh.example.com/x"}}

	results := e.BuildResults("github", tabs, bookmarks, "", testNow)

	require.NotEmpty(t, results)
	assert.Equal(t, KindTab, results[0].Kind)
	assert.Equal(t, "tab-9", results[0].ID)
}

func TestBuildResultsDedupInvariant(t *testing.T) {
	e := testEngine()
	tabs := []Tab{
		{ID: "t1", Title: "github", URL: "https://github.com/"},
		{ID: "t2", Title: "github", URL: "https://github.com"},
	}
	bookmarks := []Bookmark{githubBookmark()}

	results := e.BuildResults("github", tabs, bookmarks, "", testNow)

	seen := map[string]bool{}
	for _, r := range results {
		key := NormalizeURL(r.URL)
		assert.False(t, seen[key], "duplicate normalized URL %q", key)
		seen[key] = true
	}
}

func TestBuildResultsURLSuggestion(t *testing.T) {
	e := testEngine()

	results := e.BuildResults("example.com", nil, nil, "", testNow)

	require.Len(t, results, 2)
	assert.Equal(t, KindURL, results[0].Kind)
	assert.Equal(t, "Open URL", results[0].Title)
	assert.Equal(t, "https://example.com", results[0].URL)
	assert.Equal(t, KindGoogle, results[1].Kind)
}

func TestBuildResultsURLSuggestionSkippedWhenOpen(t *testing.T) {
	e := testEngine()
	tabs := []Tab{{ID: "t1", Title: "Example", URL: "https://example.com/"}}

	results := e.BuildResults("example.com", tabs, nil, "", testNow)

	for _, r := range results {
		assert.NotEqual(t, KindURL, r.Kind, "no URL suggestion when the URL is already present")
	}
}

func TestBuildResultsNoURLSuggestionForPlainWords(t *testing.T) {
	e := testEngine()

	results := e.BuildResults("hello", nil, nil, "", testNow)

	require.Len(t, results, 1, "plain words yield only the Google row")
	assert.Equal(t, KindGoogle, results[0].Kind)
}

func TestBuildResultsURLsModeHasNoGoogleRow(t *testing.T) {
	e := testEngine()

	results := e.BuildResults("u:example.com", nil, nil, "", testNow)

	require.Len(t, results, 1)
	assert.Equal(t, KindURL, results[0].Kind)

	assert.Empty(t, e.BuildResults("u:hello", nil, nil, "", testNow))
}

func TestBuildResultsCurrentTabExcluded(t *testing.T) {
	e := testEngine()
	tabs := []Tab{
		{ID: "t1", Title: "github one", URL: "https://github.com/one"},
		{ID: "t2", Title: "github two", URL: "https://github.com/two"},
	}

	results := e.BuildResults("github", tabs, nil, "t1", testNow)

	for _, r := range results {
		assert.NotEqual(t, "t1", r.ID, "the current tab never appears")
	}
}

func TestBuildResultsLimit(t *testing.T) {
	e := testEngine()
	e.Limit = 5
	var tabs []Tab
	for i := 0; i < 12; i++ {
		tabs = append(tabs, Tab{
			ID:    TabID(rune('a' + i)),
			Title: "Page",
			URL:   "https://example.com/" + string(rune('a'+i)),
		})
	}

	results := e.BuildResults("", tabs, nil, "", testNow)
	assert.Len(t, results, 5)
}

func TestBuildResultsUsageAnnotation(t *testing.T) {
	e := testEngine()
	e.Usage = map[string]UsageRecord{
		"https://github.com": {AccessCount: 7, LastAccessed: testNow.Add(-time.Hour).UnixMilli()},
	}
	tabs := []Tab{githubTab()}

	results := e.BuildResults("github", tabs, nil, "", testNow)

	require.NotEmpty(t, results)
	assert.Equal(t, 7, results[0].AccessCount)
	assert.Equal(t, testNow.Add(-time.Hour).UnixMilli(), results[0].LastAccessed)
}

func TestBuildResultsRelevanceOrderSyntheticsLast(t *testing.T) {
	e := testEngine()
	tabs := []Tab{{ID: "t1", Title: "example dashboard", URL: "https://dash.example.com"}}

	results := e.BuildResults("example.com", tabs, nil, "", testNow)

	require.NotEmpty(t, results)
	last := results[len(results)-1]
	assert.Equal(t, KindGoogle, last.Kind, "google row is appended after merged matches")
}
