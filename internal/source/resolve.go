// Package source discovers article candidates for a topic on a given domain.
// It normalizes user-supplied source tokens into domains and runs a waterfall
// of search backends, from a structured search API down to a synthetic
// generator that never fails.
package source

import (
	"net/url"
	"strings"
)

// Resolve normalizes a raw source token into a comparable lowercase domain.
// Tokens without a dot-separated suffix get ".com" appended, so "techcrunch"
// and "techcrunch.com" resolve to the same domain. Idempotent.
func Resolve(raw string) string {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if s == "" {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".com"
	}
	return s
}

// sourceName extracts a display name from a URL: the second-level domain,
// capitalized ("https://www.techcrunch.com/x" -> "Techcrunch").
func sourceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// Bare domains without a scheme land here.
		u = &url.URL{Host: rawURL}
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.Split(host, "/")[0]
	if host == "" {
		return "Unknown Source"
	}
	parts := strings.Split(host, ".")
	name := host
	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		name = parts[len(parts)-2]
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
