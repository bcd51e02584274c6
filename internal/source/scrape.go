package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/0x0BSoD/newsdigest/internal/model"
)

const (
	newsScrapeEndpoint = "https://news.google.com/search"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0.4758.102 Safari/537.36"
)

// ScrapeBackend harvests candidates from the Google News result listing.
// The markup it parses is not contractual; any change on their side simply
// turns this stage into zero results.
type ScrapeBackend struct {
	endpoint string
	client   *http.Client
}

func NewScrapeBackend(client *http.Client) *ScrapeBackend {
	return &ScrapeBackend{
		endpoint: newsScrapeEndpoint,
		client:   client,
	}
}

func (s *ScrapeBackend) Name() string { return "news scrape" }

func (s *ScrapeBackend) Search(ctx context.Context, q Query, domain string, window model.TimeWindow, limit int) ([]model.Candidate, error) {
	query := q.Expanded
	if !strings.Contains(query, "site:") && domain != "" {
		query += " site:" + domain
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news scrape: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news scrape: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse news listing: %w", err)
	}

	var candidates []model.Candidate
	doc.Find("article").EachWithBreak(func(_ int, listing *goquery.Selection) bool {
		titleLink := listing.Find("h3 a").First()
		if titleLink.Length() == 0 {
			return true
		}

		title := strings.TrimSpace(titleLink.Text())
		href, _ := titleLink.Attr("href")
		if title == "" || href == "" {
			return true
		}
		if strings.HasPrefix(href, "./") {
			href = "https://news.google.com/" + href[2:]
		}

		name := strings.TrimSpace(listing.Find(`div[data-n-tid] a`).First().Text())
		if name == "" {
			name = "Unknown Source"
		}

		c := model.Candidate{
			Title:   title,
			URL:     href,
			Source:  name,
			Snippet: strings.TrimSpace(listing.Find("h3 + div").First().Text()),
		}
		c.RawContent = c.Title + ". " + c.Snippet

		if datetime, ok := listing.Find("time").First().Attr("datetime"); ok {
			c.DateRaw = datetime
			if ts, err := time.Parse(time.RFC3339, datetime); err == nil {
				c.Published = ts
			}
		}

		candidates = append(candidates, c)
		return len(candidates) < limit
	})

	if len(candidates) == 0 {
		return nil, ErrNoResults
	}
	return candidates, nil
}
