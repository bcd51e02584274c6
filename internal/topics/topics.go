// Package topics holds the static topic lookup tables shared by the search
// waterfall and the relevance scorer: query expansions, per-topic preferred
// sources, per-topic blocked terms and related terms. The table is built once
// at startup and is read-only afterwards.
package topics

import "strings"

type Table struct {
	expansions map[string]string
	preferred  map[string][]string
	blocked    map[string][]string
	related    map[string][]string
}

// Default builds the process-wide table. The entries are hand-curated; there
// is no ground-truth dataset behind them.
func Default() *Table {
	return &Table{
		expansions: map[string]string{
			"ai":                      "artificial intelligence AI machine learning",
			"artificial intelligence": "AI artificial intelligence machine learning",
			"ml":                      "machine learning ML AI algorithms",
			"machine learning":        "machine learning ML AI algorithms",
			"crypto":                  "cryptocurrency crypto blockchain bitcoin",
			"cryptocurrency":          "cryptocurrency crypto blockchain bitcoin",
			"blockchain":              "blockchain cryptocurrency distributed ledger",
			"bitcoin":                 "bitcoin BTC cryptocurrency blockchain",
			"finance":                 "finance financial markets investing",
			"investing":               "investing investment finance markets",
			"stocks":                  "stocks market investing equity shares",
			"ipo":                     "IPO initial public offering stock market",
			"cybersecurity":           "cybersecurity security hacking privacy",
			"security":                "cybersecurity security hacking privacy",
			"climate":                 "climate change global warming environment",
			"environment":             "environmental climate sustainability",
			"health":                  "health healthcare medical wellness",
			"covid":                   "COVID-19 coronavirus pandemic health",
			"coronavirus":             "coronavirus COVID-19 pandemic",
			"tech":                    "technology tech digital innovation",
			"technology":              "technology tech digital innovation",
		},
		preferred: map[string][]string{
			"finance":    {"bloomberg", "wsj", "ft", "cnbc", "marketwatch", "investopedia", "forbes"},
			"investing":  {"bloomberg", "wsj", "ft", "cnbc", "marketwatch", "investopedia", "forbes"},
			"crypto":     {"coindesk", "cointelegraph", "decrypt", "theblock"},
			"technology": {"techcrunch", "wired", "theverge", "arstechnica", "engadget"},
			"ai":         {"techcrunch", "wired", "theverge", "technologyreview", "venturebeat"},
			"health":     {"webmd", "nih", "who", "mayoclinic", "healthline"},
			"science":    {"scientificamerican", "nature", "science", "newscientist"},
			"politics":   {"politico", "thehill", "washingtonpost", "nytimes"},
		},
		blocked: map[string][]string{
			"finance":      {"recipe", "cooking", "movie", "film", "celebrity", "sport"},
			"crypto":       {"recipe", "cooking", "gardening", "sports"},
			"technology":   {"recipe", "cooking", "gardening"},
			"ai":           {"recipe", "cooking", "gardening", "sports"},
			"stock market": {"recipe", "cooking", "gardening", "celebrity"},
			"ipo":          {"recipe", "gardening", "celebrity", "sports"},
			"health":       {"stock market", "cryptocurrency", "gardening"},
			"science":      {"celebrity", "gossip", "reality tv"},
		},
		related: map[string][]string{
			"finance":    {"money", "financial", "economy", "economic", "bank", "investment", "market", "stock", "fund"},
			"investing":  {"investment", "stock", "market", "fund", "portfolio", "asset", "equity", "share", "bond"},
			"crypto":     {"bitcoin", "ethereum", "blockchain", "token", "coin", "mining", "wallet", "exchange", "defi"},
			"ipo":        {"offering", "public", "listing", "share", "stock", "market", "debut", "investor"},
			"ai":         {"artificial intelligence", "machine learning", "neural", "algorithm", "model", "data", "training"},
			"technology": {"tech", "digital", "software", "hardware", "app", "internet", "device", "computer"},
		},
	}
}

// ExpandQuery widens a topic into a search query. Exact table matches win,
// then substring matches on table keys; unmatched topics are quoted for
// exact-phrase search.
func (t *Table) ExpandQuery(topic string) string {
	lower := strings.ToLower(topic)
	if expanded, ok := t.expansions[lower]; ok {
		return expanded
	}
	for key, expanded := range t.expansions {
		if strings.Contains(lower, key) {
			return topic + " " + expanded
		}
	}
	return `"` + topic + `"`
}

// IsPreferredSource reports whether source is on the allow-list for any key
// topic contained in topic.
func (t *Table) IsPreferredSource(source, topic string) bool {
	source = strings.ToLower(source)
	topic = strings.ToLower(topic)
	for key, sources := range t.preferred {
		if !strings.Contains(topic, key) {
			continue
		}
		for _, s := range sources {
			if strings.Contains(source, s) {
				return true
			}
		}
	}
	return false
}

// HasBlockedTerm reports whether text carries a term from the block-list of
// any key topic contained in topic. An exact topic match in the text always
// overrides the block.
func (t *Table) HasBlockedTerm(text, topic string) bool {
	text = strings.ToLower(text)
	topic = strings.ToLower(topic)
	if strings.Contains(text, topic) {
		return false
	}
	for key, terms := range t.blocked {
		if !strings.Contains(topic, key) {
			continue
		}
		for _, term := range terms {
			if strings.Contains(text, term) {
				return true
			}
		}
	}
	return false
}

// HasRelatedTerm reports whether text mentions a term related to the topic.
func (t *Table) HasRelatedTerm(text, topic string) bool {
	text = strings.ToLower(text)
	topic = strings.ToLower(topic)
	for key, terms := range t.related {
		if !strings.Contains(topic, key) {
			continue
		}
		for _, term := range terms {
			if strings.Contains(text, term) {
				return true
			}
		}
	}
	return false
}
