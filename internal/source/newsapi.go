package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/0x0BSoD/newsdigest/internal/model"
)

const newsAPIEndpoint = "https://newsapi.org/v2/everything"

// NewsAPIBackend queries the NewsAPI "everything" endpoint with a domain
// filter and provider-native date range parameters.
type NewsAPIBackend struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewNewsAPIBackend(apiKey string, client *http.Client) *NewsAPIBackend {
	return &NewsAPIBackend{
		apiKey:   apiKey,
		endpoint: newsAPIEndpoint,
		client:   client,
	}
}

func (n *NewsAPIBackend) Name() string { return "news api" }

type newsAPIArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

type newsAPIResponse struct {
	Articles []newsAPIArticle `json:"articles"`
}

func (n *NewsAPIBackend) Search(ctx context.Context, q Query, domain string, window model.TimeWindow, limit int) ([]model.Candidate, error) {
	if n.apiKey == "" {
		return nil, ErrNoResults
	}

	params := url.Values{}
	params.Set("apiKey", n.apiKey)
	params.Set("q", q.Expanded)
	params.Set("domains", domain)
	params.Set("from", window.Start.Format("2006-01-02"))
	params.Set("to", window.End.Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(min(100, limit)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api: unexpected status %d", resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode news api response: %w", err)
	}
	if len(body.Articles) == 0 {
		return nil, ErrNoResults
	}

	if len(body.Articles) > limit {
		body.Articles = body.Articles[:limit]
	}

	return lo.Map(body.Articles, func(a newsAPIArticle, _ int) model.Candidate {
		name := a.Source.Name
		if name == "" {
			name = sourceName(a.URL)
		}

		content := a.Content
		if content == "" {
			content = a.Description
		}
		if content == "" {
			content = fmt.Sprintf("%s. This is an article from %s about %s.", a.Title, name, q.Topic)
		}

		c := model.Candidate{
			Title:      a.Title,
			URL:        a.URL,
			Source:     name,
			Snippet:    a.Description,
			RawContent: content,
			DateRaw:    a.PublishedAt,
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			c.Published = ts
		}
		return c
	}), nil
}
