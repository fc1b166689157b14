package store

import (
	"log/slog"

	"github.com/montrey/tabdash/search"
)

const (
	sortSettingsKey       = "sortSettings"
	tabOpeningSettingsKey = "tabOpeningSettings"
)

// SortWeights tunes the smart policy. Only the smart method reads them.
type SortWeights struct {
	Relevance int `json:"relevance"`
	Frequency int `json:"frequency"`
	Recency   int `json:"recency"`
}

// SortSettings selects the result ordering policy. Loaded once per
// session; the settings view is the only writer.
type SortSettings struct {
	Method  string      `json:"method"`
	Weights SortWeights `json:"weights"`
}

func (s SortSettings) SortMethod() search.SortMethod {
	return search.ParseSortMethod(s.Method)
}

func DefaultSortSettings() SortSettings {
	return SortSettings{
		Method:  search.SortSmart.String(),
		Weights: SortWeights{Relevance: 60, Frequency: 20, Recency: 20},
	}
}

// Opening modes: standard opens the selection in the current tab with a
// modifier for a new tab; classic always opens a new tab.
const (
	OpeningStandard = "standard"
	OpeningClassic  = "classic"
)

type TabOpeningSettings struct {
	Mode string `json:"mode"`
}

func DefaultTabOpeningSettings() TabOpeningSettings {
	return TabOpeningSettings{Mode: OpeningStandard}
}

// LoadSortSettings returns the persisted settings, or defaults when the
// store is unavailable or the key was never written. Failures are logged,
// never surfaced; a degraded session just sorts with defaults.
func LoadSortSettings(kv *KV) SortSettings {
	settings := DefaultSortSettings()
	if kv == nil {
		return settings
	}
	ok, err := kv.Get(sortSettingsKey, &settings)
	if err != nil {
		slog.Warn("failed to load sort settings", "error", err)
		return DefaultSortSettings()
	}
	if !ok {
		return DefaultSortSettings()
	}
	return settings
}

func SaveSortSettings(kv *KV, settings SortSettings) {
	if kv == nil {
		return
	}
	if err := kv.Set(sortSettingsKey, settings); err != nil {
		slog.Warn("failed to save sort settings", "error", err)
	}
}

func LoadTabOpeningSettings(kv *KV) TabOpeningSettings {
	settings := DefaultTabOpeningSettings()
	if kv == nil {
		return settings
	}
	ok, err := kv.Get(tabOpeningSettingsKey, &settings)
	if err != nil || !ok {
		if err != nil {
			slog.Warn("failed to load tab opening settings", "error", err)
		}
		return DefaultTabOpeningSettings()
	}
	return settings
}

func SaveTabOpeningSettings(kv *KV, settings TabOpeningSettings) {
	if kv == nil {
		return
	}
	if err := kv.Set(tabOpeningSettingsKey, settings); err != nil {
		slog.Warn("failed to save tab opening settings", "error", err)
	}
}
