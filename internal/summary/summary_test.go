package summary

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	out   string
	err   error
	calls int
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	s.calls++
	return s.out, s.err
}

func newTestClient(completer Completer) (*Client, *[]time.Duration) {
	c := NewClient(completer, time.Second, rand.New(rand.NewSource(1)))
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestSummarizeWithoutCompleter(t *testing.T) {
	c, _ := newTestClient(nil)

	got := c.Summarize(context.Background(), "some content")

	assert.Equal(t, []string{
		"• Error: summarization API key not configured",
		"• Add an API key to enable summaries",
	}, got)
}

func TestSummarizeEmptyContent(t *testing.T) {
	stub := &stubCompleter{out: "unused"}
	c, _ := newTestClient(stub)

	got := c.Summarize(context.Background(), "   \n  ")

	assert.Equal(t, []string{"• No content available for summarization"}, got)
	assert.Zero(t, stub.calls, "empty content must not reach the backend")
}

func TestSummarizeSuccess(t *testing.T) {
	stub := &stubCompleter{out: "• First point\n• Second point"}
	c, slept := newTestClient(stub)

	got := c.Summarize(context.Background(), "article text")

	assert.Equal(t, []string{"• First point", "• Second point"}, got)
	assert.Equal(t, 1, stub.calls)
	assert.Empty(t, *slept)
}

func TestSummarizeRetriesThenGivesUp(t *testing.T) {
	stub := &stubCompleter{err: errors.New("rate limited")}
	c, slept := newTestClient(stub)

	got := c.Summarize(context.Background(), "article text")

	assert.Equal(t, 3, stub.calls, "a persistently failing backend is tried exactly three times")
	assert.Equal(t, []string{
		"• Error: summarization failed after 3 attempts",
		"• Please try again later",
	}, got)

	// Two sleeps: after attempt 1 and attempt 2. Delay doubles each time,
	// jitter adds up to one extra second.
	require.Len(t, *slept, 2)
	assert.GreaterOrEqual(t, (*slept)[0], 2*time.Second)
	assert.Less(t, (*slept)[0], 3*time.Second)
	assert.GreaterOrEqual(t, (*slept)[1], 4*time.Second)
	assert.Less(t, (*slept)[1], 5*time.Second)
}

func TestSummarizeEmptyCompletionIsRetried(t *testing.T) {
	stub := &stubCompleter{out: "   "}
	c, _ := newTestClient(stub)

	got := c.Summarize(context.Background(), "article text")

	assert.Equal(t, 3, stub.calls)
	assert.Contains(t, got[0], "failed after 3 attempts")
}

func TestSummarizeTruncatesLongContent(t *testing.T) {
	recorded := ""
	c, _ := newTestClient(completerFunc(func(_ context.Context, _, user string) (string, error) {
		recorded = user
		return "• ok", nil
	}))

	c.Summarize(context.Background(), strings.Repeat("x", maxContentLength+500))

	assert.Len(t, recorded, maxContentLength)
}

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func TestFormatBullets(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "already bulleted",
			in:   "• Alpha\n• Beta",
			want: []string{"• Alpha", "• Beta"},
		},
		{
			name: "plain lines",
			in:   "Alpha\nBeta",
			want: []string{"• Alpha", "• Beta"},
		},
		{
			name: "dash and star markers",
			in:   "- Alpha\n* Beta",
			want: []string{"• Alpha", "• Beta"},
		},
		{
			name: "numbered list",
			in:   "1. Alpha\n2) Beta",
			want: []string{"• Alpha", "• Beta"},
		},
		{
			name: "blank lines skipped",
			in:   "\nAlpha\n\n\nBeta\n",
			want: []string{"• Alpha", "• Beta"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{"• No key points identified."},
		},
		{
			name: "marker-only lines",
			in:   "•\n- ",
			want: []string{"• No key points identified."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatBullets(tc.in))
		})
	}
}

// Bulleted output and its plain-text equivalent normalize to the same lines,
// and re-formatting formatted output changes nothing.
func TestFormatBulletsIdempotent(t *testing.T) {
	bulleted := FormatBullets("• Alpha\n• Beta")
	plain := FormatBullets("Alpha\nBeta")

	assert.Equal(t, bulleted, plain)
	assert.Equal(t, bulleted, FormatBullets(strings.Join(bulleted, "\n")))
}
