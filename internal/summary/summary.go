// Package summary condenses combined article text into bullet points via an
// LLM completion backend. The client bounds input size, retries transient
// failures with exponential backoff and jitter, and always returns a usable
// bullet list; an exhausted retry budget degrades to a placeholder instead
// of an error.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	// maxContentLength keeps the request under provider token limits.
	maxContentLength = 5000

	maxAttempts = 3
	baseDelay   = time.Second

	systemPrompt = "You are a skilled content summarizer that extracts key points from articles. " +
		"Your summaries should be presented as bullet points, each starting with '•'. " +
		"Focus on extracting factual information, key insights, and main arguments. " +
		"Make sure each bullet point is self-contained and conveys a complete thought. " +
		"Be concise and avoid repetition. Use clear language."

	bulletMarker = "• "
)

// Completer is a chat-style completion backend.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Client struct {
	completer Completer
	timeout   time.Duration

	mu  sync.Mutex
	rng *rand.Rand

	// sleep is swapped out in tests to observe the backoff schedule.
	sleep func(time.Duration)
}

// NewClient builds a summarization client. A nil completer means the
// summarizer is not configured; Summarize then short-circuits to a
// placeholder without any network call. The rng drives retry jitter.
func NewClient(completer Completer, timeout time.Duration, rng *rand.Rand) *Client {
	return &Client{
		completer: completer,
		timeout:   timeout,
		rng:       rng,
		sleep:     time.Sleep,
	}
}

// Summarize turns combined article text into bullet lines. It never returns
// an error: configuration problems and exhausted retries yield descriptive
// placeholder bullets instead.
func (c *Client) Summarize(ctx context.Context, content string) []string {
	if c.completer == nil {
		return []string{
			bulletMarker + "Error: summarization API key not configured",
			bulletMarker + "Add an API key to enable summaries",
		}
	}

	if strings.TrimSpace(content) == "" {
		return []string{bulletMarker + "No content available for summarization"}
	}

	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		raw, err := c.completer.Complete(cctx, systemPrompt, content)
		cancel()

		if err == nil && strings.TrimSpace(raw) == "" {
			err = errors.New("empty completion")
		}
		if err == nil {
			return FormatBullets(raw)
		}

		log.Printf("[WARN] summarization attempt %d/%d failed: %v", attempt, maxAttempts, err)
		if attempt == maxAttempts {
			break
		}

		delay *= 2
		c.sleep(delay + c.jitter())
	}

	return []string{
		fmt.Sprintf("%sError: summarization failed after %d attempts", bulletMarker, maxAttempts),
		bulletMarker + "Please try again later",
	}
}

// jitter returns a uniform random delay in [0, 1s).
func (c *Client) jitter() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(c.rng.Float64() * float64(time.Second))
}

var numericListPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// FormatBullets normalizes model output into uniform bullet lines. Leading
// bullet or list markers and numeric prefixes are stripped before the bullet
// marker is prepended, so already-bulleted text and its plain equivalent
// format identically.
func FormatBullets(raw string) []string {
	var bullets []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, marker := range []string{"•", "-", "*"} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(strings.TrimPrefix(line, marker))
				break
			}
		}
		line = numericListPrefix.ReplaceAllString(line, "")
		if line == "" {
			continue
		}

		bullets = append(bullets, bulletMarker+line)
	}

	if len(bullets) == 0 {
		return []string{bulletMarker + "No key points identified."}
	}
	return bullets
}
