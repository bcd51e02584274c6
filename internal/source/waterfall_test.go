package source

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/newsdigest/internal/model"
	"github.com/0x0BSoD/newsdigest/internal/topics"
)

type stubBackend struct {
	name  string
	out   []model.Candidate
	err   error
	calls int
}

func (b *stubBackend) Name() string { return b.name }

func (b *stubBackend) Search(context.Context, Query, string, model.TimeWindow, int) ([]model.Candidate, error) {
	b.calls++
	return b.out, b.err
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// offlineClient simulates total loss of connectivity.
func offlineClient() *http.Client {
	return &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		}),
	}
}

func testWindow() model.TimeWindow {
	return model.TimeframeWeekly.Window(time.Now().UTC())
}

func TestWaterfallStopsAtFirstNonEmptyStage(t *testing.T) {
	first := &stubBackend{name: "first", out: []model.Candidate{{Title: "hit", URL: "https://a.com/1"}}}
	second := &stubBackend{name: "second", out: []model.Candidate{{Title: "unused", URL: "https://a.com/2"}}}

	w := NewWaterfall(topics.Default(), first, second)
	got := w.Search(context.Background(), "Technology", "a.com", testWindow(), 5)

	require.Len(t, got, 1)
	assert.Equal(t, "hit", got[0].Title)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls, "later stages must not run once one succeeds")
}

func TestWaterfallSkipsFailedStages(t *testing.T) {
	broken := &stubBackend{name: "broken", err: errors.New("boom")}
	empty := &stubBackend{name: "empty", err: ErrNoResults}
	last := &stubBackend{name: "last", out: []model.Candidate{{Title: "survivor", URL: "https://a.com/1"}}}

	w := NewWaterfall(topics.Default(), broken, empty, last)
	got := w.Search(context.Background(), "Technology", "a.com", testWindow(), 5)

	require.Len(t, got, 1)
	assert.Equal(t, "survivor", got[0].Title)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestWaterfallTruncatesToWanted(t *testing.T) {
	many := &stubBackend{name: "many", out: []model.Candidate{
		{URL: "https://a.com/1"}, {URL: "https://a.com/2"}, {URL: "https://a.com/3"},
	}}

	w := NewWaterfall(topics.Default(), many)
	got := w.Search(context.Background(), "Technology", "a.com", testWindow(), 2)

	assert.Len(t, got, 2)
}

func TestWaterfallExhaustedReturnsNil(t *testing.T) {
	w := NewWaterfall(topics.Default(), &stubBackend{name: "broken", err: errors.New("boom")})
	assert.Nil(t, w.Search(context.Background(), "Technology", "a.com", testWindow(), 5))
}

// With every HTTP call failing, the real waterfall must still produce
// candidates via the synthetic stage.
func TestWaterfallOfflineFallsBackToSynthetic(t *testing.T) {
	client := offlineClient()
	w := NewWaterfall(topics.Default(),
		NewGoogleBackend("key", "cx", client),
		NewNewsAPIBackend("key", client),
		NewScrapeBackend(client),
		NewSyntheticBackend(rand.New(rand.NewSource(42))),
	)

	got := w.Search(context.Background(), "Technology", "techcrunch.com", testWindow(), 3)

	require.NotEmpty(t, got)
	for _, c := range got {
		assert.True(t, c.Synthetic)
		assert.Contains(t, c.Title, "Technology")
		assert.NotEmpty(t, c.URL)
	}
}

func TestSyntheticDeterministicUnderSeed(t *testing.T) {
	window := testWindow()
	q := Query{Topic: "Technology", Expanded: "technology tech digital innovation"}

	a, err := NewSyntheticBackend(rand.New(rand.NewSource(7))).Search(context.Background(), q, "wired.com", window, 4)
	require.NoError(t, err)
	b, err := NewSyntheticBackend(rand.New(rand.NewSource(7))).Search(context.Background(), q, "wired.com", window, 4)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSyntheticDatesInsideWindow(t *testing.T) {
	window := testWindow()
	q := Query{Topic: "crypto"}

	got, err := NewSyntheticBackend(rand.New(rand.NewSource(1))).Search(context.Background(), q, "coindesk.com", window, 10)
	require.NoError(t, err)

	for _, c := range got {
		assert.True(t, window.Contains(c.Published), "published %s outside window", c.Published)
	}
}

func TestGoogleBackendParsesItems(t *testing.T) {
	now := time.Now().UTC()
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{
			"title": "AI boosts Technology sector",
			"link": "https://techcrunch.com/2024/01/02/ai-boosts/",
			"snippet": "The technology industry keeps growing.",
			"pagemap": {"metatags": [{"article:published_time": "` + now.Format(time.RFC3339) + `"}]}
		}]}`))
	}))
	defer srv.Close()

	g := NewGoogleBackend("key", "cx", srv.Client())
	g.endpoint = srv.URL

	got, err := g.Search(context.Background(), Query{Topic: "Technology", Expanded: "technology tech"}, "techcrunch.com", testWindow(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "AI boosts Technology sector", got[0].Title)
	assert.Equal(t, "Techcrunch", got[0].Source)
	assert.False(t, got[0].Published.IsZero())

	assert.Equal(t, "technology tech site:techcrunch.com", gotQuery["q"][0])
	assert.Equal(t, "d7", gotQuery["dateRestrict"][0])
	assert.Equal(t, "key", gotQuery["key"][0])
	assert.Equal(t, "cx", gotQuery["cx"][0])
}

func TestGoogleBackendWithoutKeyReportsNoResults(t *testing.T) {
	g := NewGoogleBackend("", "", http.DefaultClient)
	_, err := g.Search(context.Background(), Query{}, "a.com", testWindow(), 5)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestNewsAPIBackendParsesArticles(t *testing.T) {
	now := time.Now().UTC()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "relevancy", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "techcrunch.com", r.URL.Query().Get("domains"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"articles":[{
			"title": "Chips are back",
			"url": "https://techcrunch.com/chips",
			"source": {"name": "TechCrunch"},
			"publishedAt": "` + now.Format(time.RFC3339) + `",
			"description": "Semiconductors rally.",
			"content": "Full text about semiconductors."
		}]}`))
	}))
	defer srv.Close()

	n := NewNewsAPIBackend("key", srv.Client())
	n.endpoint = srv.URL

	got, err := n.Search(context.Background(), Query{Topic: "tech", Expanded: "technology"}, "techcrunch.com", testWindow(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Chips are back", got[0].Title)
	assert.Equal(t, "TechCrunch", got[0].Source)
	assert.Equal(t, "Full text about semiconductors.", got[0].RawContent)
	assert.False(t, got[0].Published.IsZero())
}

func TestScrapeBackendParsesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<article>
				<h3><a href="./articles/abc123">Robots everywhere</a></h3>
				<div>A short blurb about robots.</div>
				<div data-n-tid="9"><a>Wired</a><time datetime="2024-05-01T10:00:00Z"></time></div>
			</article>
		</body></html>`))
	}))
	defer srv.Close()

	s := NewScrapeBackend(srv.Client())
	s.endpoint = srv.URL

	got, err := s.Search(context.Background(), Query{Expanded: "robots"}, "wired.com", testWindow(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Robots everywhere", got[0].Title)
	assert.Equal(t, "https://news.google.com/articles/abc123", got[0].URL)
	assert.Equal(t, "Wired", got[0].Source)
	assert.Equal(t, "A short blurb about robots.", got[0].Snippet)
}

func TestScrapeBackendEmptyListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	s := NewScrapeBackend(srv.Client())
	s.endpoint = srv.URL

	_, err := s.Search(context.Background(), Query{Expanded: "robots"}, "wired.com", testWindow(), 5)
	assert.ErrorIs(t, err, ErrNoResults)
}
