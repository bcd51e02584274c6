// Package relevance assigns keyword-heuristic relevance scores to search
// candidates and filters out the ones unlikely to be about the requested
// topic. The scoring is not ground truth; false positives and negatives are
// expected and acceptable.
package relevance

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/0x0BSoD/newsdigest/internal/model"
	"github.com/0x0BSoD/newsdigest/internal/topics"
)

// Weights are the additive scoring signals. The values are hand-tuned and
// kept configurable rather than re-derived.
type Weights struct {
	KeywordInTitle  int
	ExactTitleMatch int
	KeywordInBody   int
	PreferredSource int
	BlockedTerm     int
}

func DefaultWeights() Weights {
	return Weights{
		KeywordInTitle:  5,
		ExactTitleMatch: 10,
		KeywordInBody:   3,
		PreferredSource: 2,
		BlockedTerm:     -5,
	}
}

// DefaultThreshold is the minimum score a candidate needs to survive Filter.
const DefaultThreshold = 3

type Scorer struct {
	topics    *topics.Table
	weights   Weights
	threshold int
}

func NewScorer(table *topics.Table, weights Weights, threshold int) *Scorer {
	return &Scorer{topics: table, weights: weights, threshold: threshold}
}

// Score computes the additive relevance score of a candidate for a topic.
func (s *Scorer) Score(c model.Candidate, topic string) int {
	var (
		score    int
		keywords = ExpandKeywords(topic)
		title    = strings.ToLower(c.Title)
		body     = strings.ToLower(c.Text())
		lower    = strings.ToLower(topic)
	)

	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += s.weights.KeywordInTitle
		}
	}

	if strings.Contains(title, lower) {
		score += s.weights.ExactTitleMatch
	}

	for _, kw := range keywords {
		if strings.Contains(body, kw) {
			score += s.weights.KeywordInBody
		}
	}

	if s.topics.IsPreferredSource(c.Source, topic) {
		score += s.weights.PreferredSource
	}

	// HasBlockedTerm already waives the penalty when the exact topic appears
	// in the text.
	if s.topics.HasBlockedTerm(title, topic) && !strings.Contains(body, lower) {
		score += s.weights.BlockedTerm
	}

	return score
}

// Filter scores every candidate and keeps those at or above the threshold,
// sorted by descending score. The sort is stable so ties preserve input
// order.
func (s *Scorer) Filter(candidates []model.Candidate, topic string) []model.ScoredCandidate {
	scored := lo.Map(candidates, func(c model.Candidate, _ int) model.ScoredCandidate {
		return model.ScoredCandidate{Candidate: c, Score: s.Score(c, topic)}
	})

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return lo.Filter(scored, func(c model.ScoredCandidate, _ int) bool {
		return c.Score >= s.threshold
	})
}

// Relevant is the final audit applied after deduplication: the topic, one of
// its words, or a related term must actually appear in the article text.
func (s *Scorer) Relevant(title, content, topic string) bool {
	title = strings.ToLower(title)
	content = strings.ToLower(content)
	lower := strings.ToLower(topic)

	if strings.Contains(title, lower) || strings.Contains(content, lower) {
		return true
	}
	for _, word := range strings.Fields(lower) {
		if strings.Contains(title, word) {
			return true
		}
	}
	return s.topics.HasRelatedTerm(title+" "+content, topic)
}

// ExpandKeywords splits the topic into lowercase words and adds naive
// singular/plural and -ing/-ed variants of each.
func ExpandKeywords(topic string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(kw string) {
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		out = append(out, kw)
	}

	for _, word := range strings.Fields(strings.ToLower(topic)) {
		add(word)
		if strings.HasSuffix(word, "s") {
			add(strings.TrimSuffix(word, "s"))
		} else {
			add(word + "s")
		}
		add(word + "ing")
		add(word + "ed")
	}

	return out
}
