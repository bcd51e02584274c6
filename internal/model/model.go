// Package model defines the data structures flowing through the digest pipeline: search requests and time windows, candidates produced by the search waterfall, articles produced by content extraction, and the final summary result handed to the caller.
package model

import (
	"strings"
	"time"
)

// Timeframe is a named recency window mapped to a fixed day-count offset
// from "now".
type Timeframe string

const (
	TimeframeDaily       Timeframe = "daily"
	TimeframeWeekly      Timeframe = "weekly"
	TimeframeFortnightly Timeframe = "fortnightly"
	TimeframeMonthly     Timeframe = "monthly"
	TimeframeQuarterly   Timeframe = "quarterly"
)

// Days returns the day-count offset for the timeframe. Unrecognized values
// fall back to the weekly window.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeDaily:
		return 1
	case TimeframeWeekly:
		return 7
	case TimeframeFortnightly:
		return 14
	case TimeframeMonthly:
		return 30
	case TimeframeQuarterly:
		return 90
	default:
		return 7
	}
}

// Window derives a concrete TimeWindow ending at now.
func (t Timeframe) Window(now time.Time) TimeWindow {
	return TimeWindow{
		Start: now.AddDate(0, 0, -t.Days()),
		End:   now,
	}
}

// TimeWindow is a recency range; Start is never after End.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of whole days the window spans, at least 1.
func (w TimeWindow) Days() int {
	d := int(w.End.Sub(w.Start).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// Contains reports whether ts falls inside the window.
func (w TimeWindow) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}

// SearchRequest is the validated inbound request the application layer hands
// to the pipeline. Sources are raw user tokens; the resolver normalizes them.
type SearchRequest struct {
	Topic     string
	Sources   []string
	Timeframe Timeframe
}

// Candidate is an unverified search result before content extraction.
// URL is the identity key used for deduplication.
type Candidate struct {
	Title      string
	URL        string
	Source     string
	Snippet    string
	RawContent string
	Published  time.Time // zero when the backend supplied no usable date
	DateRaw    string    // provider date string, kept for fallback ordering
	Synthetic  bool      // true when produced by the synthetic fallback stage
}

// Text returns the searchable body text of the candidate.
func (c Candidate) Text() string {
	return strings.TrimSpace(c.RawContent + " " + c.Snippet)
}

// ScoredCandidate pairs a candidate with its relevance score. It is consumed
// immediately by the ranker and never persisted.
type ScoredCandidate struct {
	Candidate
	Score int
}

// Article is a candidate that passed extraction, length and recency checks.
// It is the unit passed into summarization.
type Article struct {
	Title     string
	URL       string
	Source    string
	Content   string
	Published time.Time
	Synthetic bool
}

// Citation points a digest reader back at a source article.
type Citation struct {
	Title  string `db:"title"`
	Source string `db:"source"`
	URL    string `db:"url"`
	Date   string `db:"published"`
}

// SummaryResult is the terminal output of the pipeline: bullet lines plus an
// ordered citation list.
type SummaryResult struct {
	Bullets   []string
	Citations []Citation
}

// Empty reports whether the digest carries no content at all.
func (r SummaryResult) Empty() bool {
	return len(r.Bullets) == 0 && len(r.Citations) == 0
}
