package search

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultLimit caps the number of rows a build returns.
const DefaultLimit = 10

// Engine merges tab and bookmark matches into a deduplicated, ranked
// result list. It holds per-session snapshots (usage counters, sort
// settings) injected by the caller; candidate pools are passed per build so
// a refreshed tab list takes effect on the next call.
type Engine struct {
	Matcher *Matcher
	Usage   map[string]UsageRecord
	Sort    SortMethod
	Limit   int
}

func NewEngine(matcher *Matcher) *Engine {
	return &Engine{
		Matcher: matcher,
		Usage:   map[string]UsageRecord{},
		Sort:    SortSmart,
		Limit:   DefaultLimit,
	}
}

// GoogleSearchURL builds the static search link for a query. There is no
// live suggestion backend; the link is all the google kind carries.
func GoogleSearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

// BuildResults runs the full pipeline for one keystroke: parse the mode
// prefix, match, merge with URL dedup, annotate usage and sort.
//
// It is a total function: malformed candidate URLs are treated as empty
// strings and an empty result list is an answer, not an error. now feeds
// the time-sensitive sort tiers so ordering is reproducible in tests.
func (e *Engine) BuildResults(rawQuery string, tabs []Tab, bookmarks []Bookmark, currentTab TabID, now time.Time) []Result {
	mode, clean := ParseQuery(rawQuery)

	// Mode short-circuits skip merging and usage ranking entirely.
	switch mode {
	case ModeGoogle:
		if clean == "" {
			return nil
		}
		return []Result{googleResult(clean)}
	case ModeBookmarks:
		if clean == "" {
			return nil
		}
		return e.bookmarksOnly(clean, bookmarks)
	}

	// All-mode input passes through the parser untrimmed, so a
	// whitespace-only query still counts as blank here.
	blank := strings.TrimSpace(clean) == ""

	merged := newResultMap()
	if blank {
		// No keyword: list every open tab except the one the user is on.
		// Still ranked below, so frequently used tabs float up.
		for _, t := range tabs {
			if t.ID == currentTab {
				continue
			}
			merged.put(NormalizeURL(t.URL), tabResult(t))
		}
	} else {
		e.mergeTabs(merged, clean, tabs, currentTab)
		e.mergeBookmarks(merged, clean, tabs, bookmarks)
	}

	results := merged.flatten()

	if !blank {
		if target, ok := urlSuggestion(clean); ok && !merged.has(NormalizeURL(target)) {
			results = append(results, Result{
				ID:    "url-" + clean,
				Kind:  KindURL,
				Title: "Open URL",
				URL:   target,
			})
		}
		if mode == ModeAll {
			results = append(results, googleResult(clean))
		}
	}

	e.annotateUsage(results)
	SortResults(results, e.Sort, now)

	if limit := e.limit(); len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (e *Engine) bookmarksOnly(clean string, bookmarks []Bookmark) []Result {
	matches := e.Matcher.Match(clean, bookmarkCandidates(bookmarks))
	var results []Result
	for _, m := range matches {
		results = append(results, bookmarkResult(bookmarks[m.Index], m.Score))
	}
	if limit := e.limit(); len(results) > limit {
		results = results[:limit]
	}
	return results
}

// mergeTabs inserts matching tabs keyed by normalized URL. Tab rows carry
// no relevance score at this stage; the bookmark merge treats a missing
// score as worst-possible when comparing.
func (e *Engine) mergeTabs(merged *resultMap, clean string, tabs []Tab, currentTab TabID) {
	candidates := make([]Candidate, len(tabs))
	for i, t := range tabs {
		candidates[i] = Candidate{Title: t.Title, URL: t.URL}
	}
	for _, m := range e.Matcher.Match(clean, candidates) {
		t := tabs[m.Index]
		if t.ID == currentTab {
			continue
		}
		merged.put(NormalizeURL(t.URL), tabResult(t))
	}
}

// mergeBookmarks folds bookmark matches into the map. A bookmark whose URL
// is already open as a tab collapses onto that tab (tabs win dedup), with
// the better (lower) score kept; the open-tab check scans the live tab
// list, not the map, so unmatched tabs still capture their bookmarks.
func (e *Engine) mergeBookmarks(merged *resultMap, clean string, tabs []Tab, bookmarks []Bookmark) {
	for _, m := range e.Matcher.Match(clean, bookmarkCandidates(bookmarks)) {
		bm := bookmarks[m.Index]
		nurl := NormalizeURL(bm.URL)

		var open *Tab
		for i := range tabs {
			if NormalizeURL(tabs[i].URL) == nurl {
				open = &tabs[i]
				break
			}
		}

		if existing, ok := merged.get(nurl); ok && existingScore(existing) <= m.Score {
			continue
		}
		if open != nil {
			r := tabResult(*open)
			r.Score, r.HasScore = m.Score, true
			merged.put(nurl, r)
		} else {
			merged.put(nurl, bookmarkResult(bm, m.Score))
		}
	}
}

func (e *Engine) annotateUsage(results []Result) {
	for i := range results {
		u := e.Usage[NormalizeURL(results[i].URL)]
		results[i].AccessCount = u.AccessCount
		results[i].LastAccessed = u.LastAccessed
	}
}

func (e *Engine) limit() int {
	if e.Limit > 0 {
		return e.Limit
	}
	return DefaultLimit
}

// urlSuggestion decides whether the query itself deserves an "Open URL"
// row, and returns the target to open.
func urlSuggestion(clean string) (string, bool) {
	if !IsRegistrableDomain(clean) || !IsValidURL(clean) {
		return "", false
	}
	if hasScheme(clean) {
		return clean, true
	}
	return "https://" + clean, true
}

func existingScore(r Result) float64 {
	if !r.HasScore {
		return 1
	}
	return r.Score
}

func tabResult(t Tab) Result {
	return Result{
		ID:      string(t.ID),
		Kind:    KindTab,
		Title:   t.Title,
		URL:     t.URL,
		Favicon: t.Favicon,
	}
}

func bookmarkResult(bm Bookmark, score float64) Result {
	return Result{
		ID:       bm.ID,
		Kind:     KindBookmark,
		Title:    bm.Title,
		URL:      bm.URL,
		Score:    score,
		HasScore: true,
	}
}

func googleResult(clean string) Result {
	return Result{
		ID:    "google-" + clean,
		Kind:  KindGoogle,
		Title: fmt.Sprintf("Search Google for %q", clean),
		URL:   GoogleSearchURL(clean),
	}
}

func bookmarkCandidates(bookmarks []Bookmark) []Candidate {
	candidates := make([]Candidate, len(bookmarks))
	for i, bm := range bookmarks {
		candidates[i] = Candidate{Title: bm.Title, URL: bm.URL}
	}
	return candidates
}

// resultMap is the dedup reducer: a URL-keyed map that remembers first
// insertion order, with put replacing the value in place.
type resultMap struct {
	order   []string
	entries map[string]Result
}

func newResultMap() *resultMap {
	return &resultMap{entries: map[string]Result{}}
}

func (m *resultMap) put(key string, r Result) {
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = r
}

func (m *resultMap) get(key string) (Result, bool) {
	r, ok := m.entries[key]
	return r, ok
}

func (m *resultMap) has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

func (m *resultMap) flatten() []Result {
	var results []Result
	for _, key := range m.order {
		results = append(results, m.entries[key])
	}
	return results
}
