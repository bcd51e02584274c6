// Package digest orchestrates the pipeline: per-source search, relevance
// filtering, bounded-parallel content extraction, cross-source merge and
// summarization. No stage failure aborts a run; the worst case is an empty
// digest, which the synthetic search fallback prevents in normal operation.
package digest

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/0x0BSoD/newsdigest/internal/model"
	"github.com/0x0BSoD/newsdigest/internal/rank"
	"github.com/0x0BSoD/newsdigest/internal/relevance"
	"github.com/0x0BSoD/newsdigest/internal/source"
)

// excerptLength caps how much of each article feeds the combined
// summarization input.
const excerptLength = 2000

// additionalSources backfills the digest when the user's own sources come up
// short.
var additionalSources = []string{
	"bbc.com", "nytimes.com", "theguardian.com", "cnn.com",
	"washingtonpost.com", "reuters.com", "apnews.com",
	"techmeme.com", "techcrunch.com", "wired.com", "theverge.com",
	"arstechnica.com", "engadget.com", "forbes.com", "wsj.com",
	"fortune.com", "businessinsider.com", "cnbc.com", "bloomberg.com",
	"economist.com", "ft.com", "marketwatch.com", "investopedia.com",
}

type Searcher interface {
	Search(ctx context.Context, topic, domain string, window model.TimeWindow, wanted int) []model.Candidate
}

type Extractor interface {
	Fetch(ctx context.Context, url string, timeframe model.Timeframe) (*model.Article, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, content string) []string
}

// Store persists finished digests. It is optional; a nil store disables
// persistence.
type Store interface {
	Save(ctx context.Context, topic string, timeframe model.Timeframe, result model.SummaryResult) error
}

type Options struct {
	// MaxArticles bounds the whole digest.
	MaxArticles int
	// PerSourceCap bounds how many articles one source contributes.
	PerSourceCap int
	// Concurrency caps parallel extraction fetches.
	Concurrency int
}

func DefaultOptions() Options {
	return Options{
		MaxArticles:  10,
		PerSourceCap: 5,
		Concurrency:  4,
	}
}

type Digester struct {
	search     Searcher
	scorer     *relevance.Scorer
	extractor  Extractor
	summarizer Summarizer
	store      Store

	opts Options

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func New(
	search Searcher,
	scorer *relevance.Scorer,
	extractor Extractor,
	summarizer Summarizer,
	store Store,
	rng *rand.Rand,
	opts Options,
) *Digester {
	if opts.MaxArticles <= 0 {
		opts = DefaultOptions()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultOptions().Concurrency
	}
	return &Digester{
		search:     search,
		scorer:     scorer,
		extractor:  extractor,
		summarizer: summarizer,
		store:      store,
		rng:        rng,
		opts:       opts,
		now:        time.Now,
	}
}

// Process runs the full pipeline for a request and returns the digest. The
// only error it surfaces is context cancellation; everything else degrades
// to fewer (or zero) articles.
func (d *Digester) Process(ctx context.Context, req model.SearchRequest) (model.SummaryResult, error) {
	now := d.now().UTC()
	window := req.Timeframe.Window(now)

	domains := lo.Uniq(lo.Map(req.Sources, func(s string, _ int) string {
		return source.Resolve(s)
	}))

	quota := max(2, d.opts.MaxArticles/(len(domains)+1))

	var articles []model.Article
	for _, domain := range domains {
		if err := ctx.Err(); err != nil {
			return model.SummaryResult{}, err
		}
		articles = append(articles, d.collectFromSource(ctx, req.Topic, domain, window, req.Timeframe, quota)...)
	}

	// Backfill from well-known domains when the user's sources come up
	// short.
	if remaining := d.opts.MaxArticles - len(articles); remaining > 0 {
		for _, domain := range d.sampleExtraSources(domains) {
			if len(articles) >= d.opts.MaxArticles {
				break
			}
			if err := ctx.Err(); err != nil {
				return model.SummaryResult{}, err
			}
			per := max(1, remaining/5)
			articles = append(articles, d.collectFromSource(ctx, req.Topic, domain, window, req.Timeframe, per)...)
		}
	}

	articles = rank.DedupeArticles(articles)
	rank.SortArticlesByDateDesc(articles)
	articles = lo.Filter(articles, func(a model.Article, _ int) bool {
		return d.scorer.Relevant(a.Title, a.Content, req.Topic)
	})
	if len(articles) > d.opts.MaxArticles {
		articles = articles[:d.opts.MaxArticles]
	}

	if len(articles) == 0 {
		log.Printf("[WARN] no articles survived for topic %q", req.Topic)
		return model.SummaryResult{}, nil
	}

	result := model.SummaryResult{
		Bullets:   d.summarizer.Summarize(ctx, combineContent(req.Topic, articles)),
		Citations: citations(articles),
	}

	if d.store != nil {
		if err := d.store.Save(ctx, req.Topic, req.Timeframe, result); err != nil {
			log.Printf("[ERROR] failed to persist digest: %v", err)
		}
	}

	return result, nil
}

// collectFromSource runs search -> score/filter -> extract for one domain.
// Extraction fans out over a bounded worker pool; results land in an
// index-addressed slice so candidate order survives the parallelism.
func (d *Digester) collectFromSource(ctx context.Context, topic, domain string, window model.TimeWindow, timeframe model.Timeframe, quota int) []model.Article {
	candidates := d.search.Search(ctx, topic, domain, window, quota*2)
	scored := d.scorer.Filter(candidates, topic)
	if len(scored) == 0 {
		return nil
	}

	results := make([]*model.Article, len(scored))
	sem := make(chan struct{}, d.opts.Concurrency)
	var wg sync.WaitGroup

	for i, sc := range scored {
		wg.Add(1)
		go func(i int, sc model.ScoredCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = d.extract(ctx, sc, timeframe)
		}(i, sc)
	}
	wg.Wait()

	limit := min(quota, d.opts.PerSourceCap)
	articles := make([]model.Article, 0, limit)
	for _, a := range results {
		if a == nil {
			continue
		}
		articles = append(articles, *a)
		if len(articles) >= limit {
			break
		}
	}
	return articles
}

// extract fetches one candidate. Synthetic candidates carry fabricated URLs
// that cannot be fetched, so their generated body is used as-is; that keeps
// the no-connectivity guarantee intact.
func (d *Digester) extract(ctx context.Context, sc model.ScoredCandidate, timeframe model.Timeframe) *model.Article {
	if sc.Synthetic {
		return &model.Article{
			Title:     sc.Title,
			URL:       sc.URL,
			Source:    sc.Source,
			Content:   sc.RawContent,
			Published: sc.Published,
			Synthetic: true,
		}
	}

	article, err := d.extractor.Fetch(ctx, sc.URL, timeframe)
	if err != nil {
		log.Printf("[INFO] dropping %s: %v", sc.URL, err)
		return nil
	}
	if article.Source == "" {
		article.Source = sc.Source
	}
	return article
}

// sampleExtraSources picks up to five well-known domains not already
// searched, using the digester's seedable random source.
func (d *Digester) sampleExtraSources(searched []string) []string {
	pool := lo.Filter(additionalSources, func(s string, _ int) bool {
		return !lo.Contains(searched, s)
	})

	d.mu.Lock()
	d.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	d.mu.Unlock()

	return pool[:min(5, len(pool))]
}

func combineContent(topic string, articles []model.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on these articles about %s, provide a comprehensive summary:\n\n", topic)

	for i, a := range articles {
		fmt.Fprintf(&b, "Article %d: %s\n\n", i+1, a.Title)
		excerpt := a.Content
		if len(excerpt) > excerptLength {
			excerpt = excerpt[:excerptLength]
		}
		b.WriteString(excerpt)
		b.WriteString("\n\n")
	}

	return b.String()
}

func citations(articles []model.Article) []model.Citation {
	return lo.Map(articles, func(a model.Article, _ int) model.Citation {
		return model.Citation{
			Title:  a.Title,
			Source: a.Source,
			URL:    a.URL,
			Date:   a.Published.Format("January 2, 2006"),
		}
	})
}
