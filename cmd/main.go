// Copyright (c) 2024, 0x0BSoD. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/0x0BSoD/newsdigest/internal/config"
	"github.com/0x0BSoD/newsdigest/internal/digest"
	"github.com/0x0BSoD/newsdigest/internal/extract"
	"github.com/0x0BSoD/newsdigest/internal/model"
	"github.com/0x0BSoD/newsdigest/internal/relevance"
	"github.com/0x0BSoD/newsdigest/internal/source"
	"github.com/0x0BSoD/newsdigest/internal/storage"
	"github.com/0x0BSoD/newsdigest/internal/summary"
	"github.com/0x0BSoD/newsdigest/internal/topics"
)

func main() {
	var (
		topicFlag     = flag.String("topic", "", "topic to build a digest for")
		sourcesFlag   = flag.String("sources", "", "comma-separated source list (e.g. techcrunch,bbc.com)")
		timeframeFlag = flag.String("timeframe", "weekly", "recency window: daily|weekly|fortnightly|monthly|quarterly")
	)
	flag.Parse()

	if *topicFlag == "" || *sourcesFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Get()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	table := topics.Default()

	waterfall := source.NewWaterfall(table,
		source.NewGoogleBackend(cfg.GoogleAPIKey, cfg.GoogleEngineID, httpClient),
		source.NewNewsAPIBackend(cfg.NewsAPIKey, httpClient),
		source.NewScrapeBackend(httpClient),
		source.NewSyntheticBackend(rng),
	)

	scorer := relevance.NewScorer(table, relevance.DefaultWeights(), cfg.RelevanceThreshold)
	fetcher := extract.NewFetcher(cfg.FetchTimeout)

	var completer summary.Completer
	switch cfg.AIType {
	case "ollama":
		if cfg.AIBaseURL == "" {
			log.Printf("[ERROR] ai_base_url is required when ai_type is \"ollama\"")
			return
		}
		completer = summary.NewOllamaCompleter(cfg.AIBaseURL, cfg.AIModel)
		log.Printf("[INFO] using Ollama summarizer (model: %s)", cfg.AIModel)
	default:
		if cfg.AIKey == "" {
			log.Printf("[WARN] ai_key not set, digests will carry placeholder summaries")
		} else {
			completer = summary.NewOpenAICompleter(cfg.AIBaseURL, cfg.AIKey, cfg.AIModel)
			log.Printf("[INFO] using OpenAI-compatible summarizer (model: %s)", cfg.AIModel)
		}
	}
	summarizer := summary.NewClient(completer, cfg.AITimeout, rng)

	var store digest.Store
	if cfg.DatabaseDSN != "" {
		db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
		if err != nil {
			log.Printf("[ERROR] failed to connect to db: %v", err)
			return
		}
		defer db.Close()
		store = storage.NewDigestStorage(db)
	}

	digester := digest.New(
		waterfall,
		scorer,
		fetcher,
		summarizer,
		store,
		rng,
		digest.Options{
			MaxArticles:  cfg.MaxArticles,
			PerSourceCap: cfg.ArticlesPerSource,
			Concurrency:  cfg.Concurrency,
		},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req := model.SearchRequest{
		Topic:     *topicFlag,
		Sources:   strings.Split(*sourcesFlag, ","),
		Timeframe: model.Timeframe(*timeframeFlag),
	}

	result, err := digester.Process(ctx, req)
	if err != nil {
		log.Printf("[ERROR] digest failed: %v", err)
		return
	}

	if result.Empty() {
		fmt.Println("No articles found.")
		return
	}

	fmt.Printf("Digest: %s (%s)\n\n", req.Topic, req.Timeframe)
	for _, bullet := range result.Bullets {
		fmt.Println(bullet)
	}

	fmt.Println("\nSources:")
	for _, c := range result.Citations {
		fmt.Printf("  %s - %s (%s)\n    %s\n", c.Title, c.Source, c.Date, c.URL)
	}
}
