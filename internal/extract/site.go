package extract

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/SlyMarbo/rss"

	"github.com/0x0BSoD/newsdigest/internal/model"
)

const (
	// siteLinkCap bounds how many harvested URLs are fetched per site.
	siteLinkCap = 10
	// siteArticleCap bounds how many accepted articles a site contributes.
	siteArticleCap = 5
)

// Link shapes that never lead to article pages.
var skipLinkPatterns = []string{
	".pdf", ".jpg", ".png", ".gif", "/wp-content/", "/static/",
	"/images/", "/css/", "/js/", "/login", "/register", "/sitemap",
}

var feedPaths = []string{"/feed", "/rss", "/feed.xml", "/index.xml"}

// contextTransport injects a context into every outgoing request so that
// cancellation and deadlines propagate through the rss library.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// FindArticlesOnSite crawls a site for articles mentioning the topic. It
// harvests same-domain links whose URL or anchor text contains the topic,
// probes the site's search paths and feeds when direct harvesting is thin,
// then runs the normal extraction chain over at most siteLinkCap URLs.
func (f *Fetcher) FindArticlesOnSite(ctx context.Context, rawURL, topic string, timeframe model.Timeframe) []model.Article {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil
	}
	base := parsed.Scheme + "://" + parsed.Host

	links := f.keywordLinks(ctx, base, topic)

	if len(links) < 3 {
		for _, path := range searchPaths(topic) {
			links = append(links, f.keywordLinks(ctx, base+path, topic)...)
			if len(links) >= 5 {
				break
			}
		}
	}
	if len(links) < 3 {
		links = append(links, f.feedLinks(ctx, base, topic)...)
	}

	links = uniqueStrings(links)
	if len(links) > siteLinkCap {
		links = links[:siteLinkCap]
	}

	var articles []model.Article
	for _, link := range links {
		if len(articles) >= siteArticleCap {
			break
		}
		article, err := f.Fetch(ctx, link, timeframe)
		if err != nil {
			log.Printf("[INFO] skipping %s: %v", link, err)
			continue
		}
		articles = append(articles, *article)
	}

	// Nothing harvested; the given URL itself may be the article.
	if len(articles) == 0 && rawURL != base {
		if article, err := f.Fetch(ctx, rawURL, timeframe); err == nil {
			articles = append(articles, *article)
		}
	}

	return articles
}

// keywordLinks fetches a page and collects same-domain links whose URL or
// anchor text mentions the topic keyword.
func (f *Fetcher) keywordLinks(ctx context.Context, pageURL, topic string) []string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	keyword := strings.ToLower(topic)
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := parsed.ResolveReference(ref)
		if full.Scheme != "http" && full.Scheme != "https" {
			return
		}

		lowered := strings.ToLower(full.String())
		for _, pattern := range skipLinkPatterns {
			if strings.Contains(lowered, pattern) {
				return
			}
		}

		if !strings.Contains(full.Host, parsed.Host) {
			return
		}

		anchor := strings.ToLower(strings.TrimSpace(a.Text()))
		if strings.Contains(lowered, keyword) || strings.Contains(anchor, keyword) {
			links = append(links, full.String())
		}
	})

	return links
}

// feedLinks probes common feed paths and keeps entries mentioning the topic.
func (f *Fetcher) feedLinks(ctx context.Context, base, topic string) []string {
	client := &http.Client{
		Transport: contextTransport{ctx: ctx, base: http.DefaultTransport},
		Timeout:   f.client.Timeout,
	}
	keyword := strings.ToLower(topic)

	for _, path := range feedPaths {
		feed, err := rss.FetchByClient(base+path, client)
		if err != nil {
			continue
		}

		var links []string
		for _, item := range feed.Items {
			title := strings.ToLower(item.Title)
			link := strings.ToLower(item.Link)
			if strings.Contains(title, keyword) || strings.Contains(link, keyword) {
				links = append(links, item.Link)
			}
		}
		if len(links) > 0 {
			return links
		}
	}

	return nil
}

func searchPaths(topic string) []string {
	escaped := url.QueryEscape(topic)
	return []string{
		fmt.Sprintf("/search?q=%s", escaped),
		fmt.Sprintf("/search?query=%s", escaped),
		fmt.Sprintf("/search/%s", escaped),
		fmt.Sprintf("/?s=%s", escaped),
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
