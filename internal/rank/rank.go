// Package rank deduplicates candidate lists by normalized URL and orders
// them by recency.
package rank

import (
	"sort"
	"strings"

	"github.com/0x0BSoD/newsdigest/internal/model"
)

// Dedupe keeps the first occurrence per normalized URL, preserving first-seen
// order. The input slice is not modified.
func Dedupe(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := NormalizeURL(c.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// NormalizeURL lowercases a URL and strips scheme, www prefix and trailing
// slash, so scheme and case variants of the same page compare equal.
func NormalizeURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// DedupeArticles mirrors Dedupe for extracted articles merged across
// sources.
func DedupeArticles(articles []model.Article) []model.Article {
	seen := make(map[string]bool, len(articles))
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		key := NormalizeURL(a.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// SortArticlesByDateDesc orders articles newest first. Extraction always
// resolves a date, so no fallback ordering is needed here.
func SortArticlesByDateDesc(articles []model.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
}

// SortByDateDesc orders candidates newest first. Items with a resolved
// publish date come before undated ones; undated items fall back to a
// lexical compare of the raw provider date string. The lexical fallback is
// not calendar-correct for non-ISO strings; that ordering quirk is inherited
// behavior and deliberately kept.
func SortByDateDesc(candidates []model.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case !a.Published.IsZero() && !b.Published.IsZero():
			return a.Published.After(b.Published)
		case !a.Published.IsZero():
			return true
		case !b.Published.IsZero():
			return false
		default:
			return a.DateRaw > b.DateRaw
		}
	})
}
