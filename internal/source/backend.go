package source

import (
	"context"
	"errors"
	"log"

	"github.com/0x0BSoD/newsdigest/internal/model"
	"github.com/0x0BSoD/newsdigest/internal/topics"
)

// ErrNoResults marks a backend that responded correctly but found nothing.
// The waterfall treats it the same as a transport or parse error, but keeping
// the distinction makes the logs diagnosable.
var ErrNoResults = errors.New("source: no results")

// Query carries both the raw topic and its table-expanded search string. The
// waterfall expands once so every stage searches for the same thing.
type Query struct {
	Topic    string
	Expanded string
}

// Backend is one stage of the search waterfall. Implementations return at
// most limit candidates for the query, scoped to domain.
type Backend interface {
	Name() string
	Search(ctx context.Context, q Query, domain string, window model.TimeWindow, limit int) ([]model.Candidate, error)
}

// Waterfall tries its backends strictly in order until one yields at least
// one candidate. Backend failures of any kind are logged and treated as zero
// results; with the synthetic stage last the waterfall as a whole never
// comes back empty.
type Waterfall struct {
	backends []Backend
	topics   *topics.Table
}

func NewWaterfall(table *topics.Table, backends ...Backend) *Waterfall {
	return &Waterfall{backends: backends, topics: table}
}

func (w *Waterfall) Search(ctx context.Context, topic, domain string, window model.TimeWindow, wanted int) []model.Candidate {
	q := Query{Topic: topic, Expanded: w.topics.ExpandQuery(topic)}

	for _, b := range w.backends {
		candidates, err := b.Search(ctx, q, domain, window, wanted)
		switch {
		case errors.Is(err, ErrNoResults):
			log.Printf("[INFO] %s found nothing for %q on %s", b.Name(), topic, domain)
			continue
		case err != nil:
			log.Printf("[WARN] %s failed for %q on %s: %v", b.Name(), topic, domain, err)
			continue
		case len(candidates) == 0:
			continue
		}

		if len(candidates) > wanted {
			candidates = candidates[:wanted]
		}
		return candidates
	}

	return nil
}
