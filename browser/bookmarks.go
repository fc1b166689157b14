package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/montrey/tabdash/search"
)

// Chromium stores bookmark timestamps as microseconds since 1601-01-01.
const windowsEpochOffsetMs = 11644473600000

// bookmarkNode is one entry of the Bookmarks file tree. Folders carry
// children; only url-typed nodes become candidates.
type bookmarkNode struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	DateAdded string         `json:"date_added"`
	Children  []bookmarkNode `json:"children"`
}

type bookmarksFile struct {
	Roots map[string]bookmarkNode `json:"roots"`
}

// ReadBookmarks parses a Chromium Bookmarks file and flattens it to the
// URL-bearing entries; folder-only nodes are walked, not returned.
func ReadBookmarks(path string) ([]search.Bookmark, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file: %w", err)
	}
	var file bookmarksFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks file: %w", err)
	}

	var bookmarks []search.Bookmark
	for _, key := range []string{"bookmark_bar", "other", "synced"} {
		root, ok := file.Roots[key]
		if !ok {
			continue
		}
		bookmarks = collect(root, bookmarks)
	}
	return bookmarks, nil
}

func collect(node bookmarkNode, out []search.Bookmark) []search.Bookmark {
	if node.Type == "url" && node.URL != "" {
		out = append(out, search.Bookmark{
			ID:        node.ID,
			Title:     node.Name,
			URL:       node.URL,
			DateAdded: chromeTimeToUnixMs(node.DateAdded),
		})
	}
	for _, child := range node.Children {
		out = collect(child, out)
	}
	return out
}

func chromeTimeToUnixMs(raw string) int64 {
	micros, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || micros == 0 {
		return 0
	}
	ms := micros/1000 - windowsEpochOffsetMs
	if ms < 0 {
		return 0
	}
	return ms
}

// DefaultBookmarksPath guesses where the default Chromium/Chrome profile
// keeps its Bookmarks file. Returns "" when no candidate exists.
func DefaultBookmarksPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "Bookmarks"),
			filepath.Join(home, "Library", "Application Support", "Chromium", "Default", "Bookmarks"),
		}
	default:
		candidates = []string{
			filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks"),
			filepath.Join(home, ".config", "chromium", "Default", "Bookmarks"),
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
