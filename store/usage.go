package store

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/montrey/tabdash/search"
)

const (
	usageDataKey = "usageData"

	// Eviction policy: drop records unused for 30 days, then enforce the
	// record cap by pruning the lowest frequency-per-age scores.
	maxRecordAge = 30 * 24 * time.Hour
	maxRecords   = 1000

	// Browser events can fire several times for one navigation; repeat
	// recordings for the same URL inside this window are dropped.
	recordWindow = time.Second
)

var internalSchemes = []string{"chrome://", "about:", "devtools://"}

// Tracker owns the per-URL access counters. It keeps the authoritative map
// in memory and writes the whole blob through the KV store on every
// mutation; if the store is unavailable the session degrades to in-memory
// counters and logs once per failure.
//
// The duplicate-suppression window lives here as explicit state rather
// than in a package-level map, so it is testable with a fake clock.
// The UI session and the tab watcher share one Tracker across goroutines;
// mu guards the maps.
type Tracker struct {
	mu         sync.Mutex
	kv         *KV
	usage      map[string]search.UsageRecord
	lastRecord map[string]time.Time
	now        func() time.Time
	logger     *slog.Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock sets the time source. Default is time.Now.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func NewTracker(kv *KV, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		kv:         kv,
		usage:      map[string]search.UsageRecord{},
		lastRecord: map[string]time.Time{},
		now:        time.Now,
		logger:     slog.Default().With("component", "usage-tracker"),
	}
	for _, opt := range opts {
		opt(t)
	}
	if kv != nil {
		if _, err := kv.Get(usageDataKey, &t.usage); err != nil {
			t.logger.Warn("failed to load usage data, starting empty", "error", err)
			t.usage = map[string]search.UsageRecord{}
		}
	}
	return t
}

// RecordAccess bumps the counter for a visited URL. Internal browser pages
// are never counted, and repeat calls for the same URL within the record
// window are dropped.
func (t *Tracker) RecordAccess(url string) {
	if url == "" {
		return
	}
	for _, scheme := range internalSchemes {
		if strings.HasPrefix(url, scheme) {
			return
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.lastRecord[url]; ok && now.Sub(last) < recordWindow {
		return
	}
	t.lastRecord[url] = now

	key := search.NormalizeURL(url)
	rec := t.usage[key]
	rec.AccessCount++
	rec.LastAccessed = now.UnixMilli()
	t.usage[key] = rec

	t.persist()
}

// Usage returns a snapshot of the counters, keyed by normalized URL. The
// engine holds the snapshot for one popup session; mutating it does not
// affect the tracker.
func (t *Tracker) Usage() map[string]search.UsageRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]search.UsageRecord, len(t.usage))
	for k, v := range t.usage {
		out[k] = v
	}
	return out
}

// SaveAll replaces the counters wholesale and persists them.
func (t *Tracker) SaveAll(usage map[string]search.UsageRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage = make(map[string]search.UsageRecord, len(usage))
	for k, v := range usage {
		t.usage[k] = v
	}
	t.persist()
}

// Cleanup evicts stale records: everything unused for 30 days goes, and if
// the map still exceeds the cap the lowest-scoring records by
// frequency / sqrt(age) are pruned until it fits. Idempotent; safe to run
// on a timer alongside reads (last write wins on the blob).
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	cutoff := now.Add(-maxRecordAge).UnixMilli()
	removed := 0
	for url, rec := range t.usage {
		if rec.LastAccessed < cutoff {
			delete(t.usage, url)
			removed++
		}
	}

	if len(t.usage) > maxRecords {
		type scored struct {
			url   string
			score float64
		}
		all := make([]scored, 0, len(t.usage))
		for url, rec := range t.usage {
			all = append(all, scored{url: url, score: evictionScore(rec, now)})
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].score != all[j].score {
				return all[i].score < all[j].score
			}
			return all[i].url < all[j].url
		})
		for _, s := range all[:len(t.usage)-maxRecords] {
			delete(t.usage, s.url)
			removed++
		}
	}

	if removed > 0 {
		t.logger.Info("cleaned up usage data", "removed", removed, "remaining", len(t.usage))
		t.persist()
	}
}

// evictionScore ranks records for pruning: frequently used, recently
// touched records score high and survive.
func evictionScore(rec search.UsageRecord, now time.Time) float64 {
	ageSeconds := float64(now.UnixMilli()-rec.LastAccessed) / 1000
	if ageSeconds < 1 {
		ageSeconds = 1
	}
	return float64(rec.AccessCount) / math.Sqrt(ageSeconds)
}

func (t *Tracker) persist() {
	if t.kv == nil {
		return
	}
	if err := t.kv.Set(usageDataKey, t.usage); err != nil {
		t.logger.Warn("failed to save usage data", "error", err)
	}
}
