package search

import (
	"sort"
	"time"
)

const (
	dayMillis  = int64(24 * time.Hour / time.Millisecond)
	weekMillis = 7 * dayMillis
)

// SortResults orders results in place under the given policy. now anchors
// the recency tiers; passing it in keeps the policies pure, so a result
// set sorts identically for any fixed timestamp.
//
// All three policies are stable: sort.SliceStable plus strict comparators
// means equal keys keep their merge-insertion order.
func SortResults(results []Result, method SortMethod, now time.Time) {
	nowMs := now.UnixMilli()
	switch method {
	case SortRelevance:
		// Merge order already encodes relevance: tabs, then
		// cross-referenced bookmarks, then synthetic suggestions.
	case SortUsage:
		sort.SliceStable(results, func(i, j int) bool {
			return usageLess(results[i], results[j], nowMs)
		})
	case SortSmart:
		sort.SliceStable(results, func(i, j int) bool {
			return smartLess(results[i], results[j], nowMs)
		})
	}
}

// usageLess is a binary recency split at 24 hours: recently accessed rows
// first, ordered by last access; everything else by access count.
func usageLess(a, b Result, nowMs int64) bool {
	aRecent := nowMs-a.LastAccessed <= dayMillis
	bRecent := nowMs-b.LastAccessed <= dayMillis
	if aRecent != bRecent {
		return aRecent
	}
	if aRecent {
		return a.LastAccessed > b.LastAccessed
	}
	return a.AccessCount > b.AccessCount
}

// smartLess adds a middle tier: within 24h by last access, within 7 days
// by a composite frequency/recency score, beyond that by access count.
func smartLess(a, b Result, nowMs int64) bool {
	aAge := nowMs - a.LastAccessed
	bAge := nowMs - b.LastAccessed

	aDay := aAge <= dayMillis
	bDay := bAge <= dayMillis
	if aDay != bDay {
		return aDay
	}
	if aDay {
		return a.LastAccessed > b.LastAccessed
	}

	aWeek := aAge <= weekMillis
	bWeek := bAge <= weekMillis
	if aWeek != bWeek {
		return aWeek
	}
	if aWeek {
		return smartScore(a, aAge) > smartScore(b, bAge)
	}

	return a.AccessCount > b.AccessCount
}

func smartScore(r Result, ageMs int64) float64 {
	days := float64(ageMs) / float64(dayMillis)
	return float64(r.AccessCount)*10 + (7-days)*5
}
