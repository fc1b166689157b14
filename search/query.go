package search

import "strings"

// ParseQuery splits raw input into a search mode and a clean query.
//
// A two-character prefix at position 0 selects the mode: "b:" bookmarks,
// "u:" urls, "g:" google (case-insensitive). Anything else is ModeAll with
// the input passed through unchanged. There is no escaping; a literal "b:"
// later in the query is just text.
func ParseQuery(raw string) (Mode, string) {
	if len(raw) >= 2 && raw[1] == ':' {
		switch raw[0] {
		case 'b', 'B':
			return ModeBookmarks, strings.TrimSpace(raw[2:])
		case 'u', 'U':
			return ModeURLs, strings.TrimSpace(raw[2:])
		case 'g', 'G':
			return ModeGoogle, strings.TrimSpace(raw[2:])
		}
	}
	return ModeAll, raw
}
