package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/newsdigest/internal/model"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/article/", "example.com/article"},
		{"http://example.com/article", "example.com/article"},
		{"HTTPS://WWW.Example.COM/Article", "example.com/article"},
		{"example.com/article/", "example.com/article"},
		{"  https://example.com/article  ", "example.com/article"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeURL(tc.in), "NormalizeURL(%q)", tc.in)
	}
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	in := []model.Candidate{
		{Title: "first", URL: "https://www.example.com/article/"},
		{Title: "shadowed", URL: "http://example.com/article"},
		{Title: "other", URL: "https://example.com/other"},
		{Title: "shadowed again", URL: "EXAMPLE.COM/article"},
	}

	got := Dedupe(in)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "other", got[1].Title)
}

func TestDedupeNoSharedNormalizedURLs(t *testing.T) {
	in := []model.Candidate{
		{URL: "https://a.com/x"},
		{URL: "https://a.com/x/"},
		{URL: "https://b.com/y"},
		{URL: "http://www.b.com/y"},
	}

	got := Dedupe(in)

	seen := map[string]bool{}
	for _, c := range got {
		key := NormalizeURL(c.URL)
		assert.False(t, seen[key], "duplicate normalized URL %q survived", key)
		seen[key] = true
	}
}

func TestDedupeArticles(t *testing.T) {
	in := []model.Article{
		{Title: "keep", URL: "https://a.com/x"},
		{Title: "drop", URL: "http://www.a.com/x/"},
	}

	got := DedupeArticles(in)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Title)
}

func TestSortArticlesByDateDesc(t *testing.T) {
	now := time.Now()
	in := []model.Article{
		{Title: "old", Published: now.AddDate(0, 0, -5)},
		{Title: "new", Published: now},
		{Title: "mid", Published: now.AddDate(0, 0, -2)},
	}

	SortArticlesByDateDesc(in)

	assert.Equal(t, []string{"new", "mid", "old"},
		[]string{in[0].Title, in[1].Title, in[2].Title})
}

func TestSortByDateDescDatedBeforeUndated(t *testing.T) {
	now := time.Now()
	in := []model.Candidate{
		{Title: "undated-b", DateRaw: "2024-01-01"},
		{Title: "dated-old", Published: now.AddDate(0, 0, -3)},
		{Title: "undated-a", DateRaw: "2024-06-01"},
		{Title: "dated-new", Published: now},
	}

	SortByDateDesc(in)

	assert.Equal(t, "dated-new", in[0].Title)
	assert.Equal(t, "dated-old", in[1].Title)
	// Undated items order by raw string compare, newest ISO string first.
	assert.Equal(t, "undated-a", in[2].Title)
	assert.Equal(t, "undated-b", in[3].Title)
}
