package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/araddon/dateparse"

	"github.com/0x0BSoD/newsdigest/internal/model"
)

const googleEndpoint = "https://www.googleapis.com/customsearch/v1"

// metatag keys that commonly carry the publish date, in probe order.
var googleDateTags = []string{
	"article:published_time",
	"pubdate",
	"date",
	"og:published_time",
	"datepublished",
}

// GoogleBackend queries the Google Custom Search API, scoped to a single
// domain via the site: operator and bounded by dateRestrict.
type GoogleBackend struct {
	apiKey   string
	engineID string
	endpoint string
	client   *http.Client
}

func NewGoogleBackend(apiKey, engineID string, client *http.Client) *GoogleBackend {
	return &GoogleBackend{
		apiKey:   apiKey,
		engineID: engineID,
		endpoint: googleEndpoint,
		client:   client,
	}
}

func (g *GoogleBackend) Name() string { return "google search" }

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Pagemap struct {
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

type googleResponse struct {
	Items []googleItem `json:"items"`
}

func (g *GoogleBackend) Search(ctx context.Context, q Query, domain string, window model.TimeWindow, limit int) ([]model.Candidate, error) {
	if g.apiKey == "" || g.engineID == "" {
		return nil, ErrNoResults
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.engineID)
	params.Set("q", q.Expanded+" site:"+domain)
	params.Set("num", strconv.Itoa(min(10, limit)))
	params.Set("dateRestrict", fmt.Sprintf("d%d", window.Days()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search: unexpected status %d", resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode google response: %w", err)
	}
	if len(body.Items) == 0 {
		return nil, ErrNoResults
	}

	candidates := make([]model.Candidate, 0, len(body.Items))
	for _, item := range body.Items {
		c := model.Candidate{
			Title:      item.Title,
			URL:        item.Link,
			Source:     sourceName(item.Link),
			Snippet:    item.Snippet,
			RawContent: item.Title + ". " + item.Snippet,
		}
		if raw, ok := publishedMetatag(item); ok {
			c.DateRaw = raw
			if ts, err := dateparse.ParseAny(raw); err == nil && window.Contains(ts) {
				c.Published = ts
			}
		}
		candidates = append(candidates, c)
		if len(candidates) >= limit {
			break
		}
	}

	return candidates, nil
}

func publishedMetatag(item googleItem) (string, bool) {
	for _, metatag := range item.Pagemap.Metatags {
		for _, tag := range googleDateTags {
			if v, ok := metatag[tag]; ok && v != "" {
				return v, true
			}
		}
	}
	return "", false
}
