package search

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NormalizeURL strips a single trailing slash. This is the dedup and usage
// key for the whole system: two URLs collide iff they agree except for one
// trailing slash. Scheme, host case and query strings are deliberately left
// alone; dedup and usage lookups both depend on this exact key shape.
func NormalizeURL(raw string) string {
	return strings.TrimSuffix(raw, "/")
}

// IsValidURL reports whether s parses as an http(s) URL once a missing
// scheme is defaulted to https.
func IsValidURL(s string) bool {
	if !hasScheme(s) {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsRegistrableDomain reports whether s looks like a registrable domain:
// it contains a dot and its suffix is a known ICANN public suffix. Used as
// the gate before offering a synthetic "Open URL" suggestion.
//
// Schemeless input must be a bare domain; anything trailing it (a path,
// a query) fails the gate. Scheme-bearing input is gated on its host.
func IsRegistrableDomain(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.Contains(s, ".") {
		return false
	}
	host := s
	if hasScheme(host) {
		u, err := url.Parse(host)
		if err != nil || u.Host == "" {
			return false
		}
		host = u.Host
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return false
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return false
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	return icann && suffix != ""
}

func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for _, r := range s[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
