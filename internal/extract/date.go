package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Publish-date metadata, in probe order. Structured tags first, then the
// machine-readable time element, then byline-style text as a last resort.
var metaDateSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[property="og:published_time"]`,
	`meta[name="pubdate"]`,
	`meta[name="publishdate"]`,
	`meta[name="date"]`,
	`meta[itemprop="datePublished"]`,
}

const bylineSelector = "span.date, div.date, p.date, .byline, .meta, .post-date, .published"

// extractPublished walks the date-extraction chain and falls back to now
// when nothing on the page parses.
func extractPublished(doc *goquery.Document, fallback time.Time) time.Time {
	for _, selector := range metaDateSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok && content != "" {
			if ts, err := dateparse.ParseAny(content); err == nil {
				return ts
			}
		}
	}

	var (
		found time.Time
		ok    bool
	)
	doc.Find("time").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		datetime, has := t.Attr("datetime")
		if !has || datetime == "" {
			return true
		}
		ts, err := dateparse.ParseAny(datetime)
		if err != nil {
			return true
		}
		found, ok = ts, true
		return false
	})
	if ok {
		return found
	}

	doc.Find(bylineSelector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		ts, err := dateparse.ParseAny(strings.TrimSpace(el.Text()))
		if err != nil {
			return true
		}
		found, ok = ts, true
		return false
	})
	if ok {
		return found
	}

	return fallback
}
