package browser

import (
	"context"
	"log/slog"
	"time"

	"github.com/montrey/tabdash/search"
	"github.com/montrey/tabdash/store"
)

// DefaultPollInterval is how often the watcher re-snapshots the tab list.
const DefaultPollInterval = 2 * time.Second

// Watcher polls the tab list and records accesses for navigations and
// focus changes, the way a background script would react to tab events.
// The tab cache and last-focus marker are struct state, not globals, so a
// test can drive the diffing directly.
//
// Duplicate events for one navigation are handled downstream: the tracker
// drops repeat recordings inside its one-second window.
type Watcher struct {
	client   *Client
	tracker  *store.Tracker
	interval time.Duration
	cache    map[search.TabID]search.Tab
	focused  search.TabID
	primed   bool
	logger   *slog.Logger
}

func NewWatcher(client *Client, tracker *store.Tracker, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		client:   client,
		tracker:  tracker,
		interval: interval,
		cache:    map[search.TabID]search.Tab{},
		logger:   slog.Default().With("component", "tab-watcher"),
	}
}

// Run polls until the context is cancelled. Snapshot failures are logged
// and skipped; the next tick retries.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tabs, err := w.client.Tabs(ctx)
			if err != nil {
				w.logger.Debug("tab snapshot failed", "error", err)
				continue
			}
			w.observe(tabs)
		}
	}
}

// observe diffs a snapshot against the cache: new tabs and URL changes
// count as accesses, and a focus change counts as an access to the newly
// focused tab. Closed tabs just leave the cache. The very first snapshot
// only primes the cache; pre-existing tabs are not accesses.
func (w *Watcher) observe(tabs []search.Tab) {
	seen := make(map[search.TabID]search.Tab, len(tabs))
	for _, tab := range tabs {
		seen[tab.ID] = tab
		prev, known := w.cache[tab.ID]
		if w.primed && (!known || prev.URL != tab.URL) {
			w.tracker.RecordAccess(tab.URL)
		}
	}

	if len(tabs) > 0 && tabs[0].ID != w.focused {
		if w.primed {
			w.tracker.RecordAccess(tabs[0].URL)
		}
		w.focused = tabs[0].ID
	}

	w.cache = seen
	w.primed = true
}
