package search

// Kind classifies a result row.
type Kind int

const (
	KindTab Kind = iota
	KindBookmark
	KindURL
	KindGoogle
)

func (k Kind) String() string {
	switch k {
	case KindTab:
		return "tab"
	case KindBookmark:
		return "bookmark"
	case KindURL:
		return "url"
	case KindGoogle:
		return "google"
	}
	return "unknown"
}

// TabID identifies a live browser tab. It equals the DevTools target ID, so
// the UI can activate or close the tab directly.
type TabID string

// Tab is an open browser tab as reported by the tab source.
type Tab struct {
	ID      TabID
	Title   string
	URL     string
	Favicon string
}

// Bookmark is a URL-bearing bookmark entry. Folder-only entries are
// filtered out by the bookmark source.
type Bookmark struct {
	ID        string
	Title     string
	URL       string
	DateAdded int64 // unix milliseconds
}

// Result is one row of a built result list.
//
// Within a single list, NormalizeURL(URL) is unique; that is the dedup key.
// ID is unique and stable for selection tracking; for tabs it equals the
// live tab ID.
type Result struct {
	ID      string
	Kind    Kind
	Title   string
	URL     string
	Favicon string

	// Score is the fuzzy match relevance (0 best, 1 worst). HasScore is
	// false for rows that never went through the matcher, e.g. the
	// empty-query tab listing.
	Score    float64
	HasScore bool

	AccessCount  int
	LastAccessed int64 // unix milliseconds, 0 if never accessed
}

// Mode restricts what a query searches, selected by a two-character prefix.
type Mode int

const (
	ModeAll Mode = iota
	ModeBookmarks
	ModeURLs
	ModeGoogle
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeBookmarks:
		return "bookmarks"
	case ModeURLs:
		return "urls"
	case ModeGoogle:
		return "google"
	}
	return "unknown"
}

// SortMethod selects the ordering policy applied to built results.
type SortMethod int

const (
	SortSmart SortMethod = iota
	SortRelevance
	SortUsage
)

func (s SortMethod) String() string {
	switch s {
	case SortSmart:
		return "smart"
	case SortRelevance:
		return "relevance"
	case SortUsage:
		return "usage"
	}
	return "unknown"
}

// ParseSortMethod maps a stored settings value back to a SortMethod.
// Unknown values fall back to smart, the default.
func ParseSortMethod(s string) SortMethod {
	switch s {
	case "relevance":
		return SortRelevance
	case "usage":
		return SortUsage
	default:
		return SortSmart
	}
}

// UsageRecord is the per-URL access counter attached to results, keyed by
// normalized URL.
type UsageRecord struct {
	AccessCount  int   `json:"accessCount"`
	LastAccessed int64 `json:"lastAccessed"` // unix milliseconds
}
