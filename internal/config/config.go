package config

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

type Config struct {
	GoogleAPIKey   string `hcl:"google_api_key" env:"GOOGLE_API_KEY"`
	GoogleEngineID string `hcl:"google_engine_id" env:"GOOGLE_ENGINE_ID"`
	NewsAPIKey     string `hcl:"news_api_key" env:"NEWS_API_KEY"`

	AIType    string        `hcl:"ai_type" env:"AI_TYPE" default:"openai"`
	AIBaseURL string        `hcl:"ai_base_url" env:"AI_BASE_URL"`
	AIKey     string        `hcl:"ai_key" env:"AI_KEY"`
	AIModel   string        `hcl:"ai_model" env:"AI_MODEL" default:"sonar"`
	AITimeout time.Duration `hcl:"ai_timeout" env:"AI_TIMEOUT" default:"45s"`

	DatabaseDSN string `hcl:"database_dsn" env:"DATABASE_DSN"`

	FetchTimeout       time.Duration `hcl:"fetch_timeout" env:"FETCH_TIMEOUT" default:"10s"`
	MaxArticles        int           `hcl:"max_articles" env:"MAX_ARTICLES" default:"10"`
	ArticlesPerSource  int           `hcl:"articles_per_source" env:"ARTICLES_PER_SOURCE" default:"5"`
	Concurrency        int           `hcl:"concurrency" env:"CONCURRENCY" default:"4"`
	RelevanceThreshold int           `hcl:"relevance_threshold" env:"RELEVANCE_THRESHOLD" default:"3"`
	RandomSeed         int64         `hcl:"random_seed" env:"RANDOM_SEED"`
}

var (
	cfg  Config
	once sync.Once
)

func Get() Config {
	once.Do(func() {
		loader := aconfig.LoaderFor(&cfg, aconfig.Config{
			EnvPrefix: "NDG",
			Files:     []string{"./config.hcl", "./config.local.hcl", "$HOME/.config/newsdigest/config.hcl"},
			FileDecoders: map[string]aconfig.FileDecoder{
				".hcl": aconfighcl.New(),
			},
		})

		if err := loader.Load(); err != nil {
			slog.Error("failed to load config", "err", err)
		}
	})

	return cfg
}
