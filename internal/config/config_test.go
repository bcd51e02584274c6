package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaults(t *testing.T) {
	cfg := Get()

	assert.Equal(t, "openai", cfg.AIType)
	assert.Equal(t, "sonar", cfg.AIModel)
	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10, cfg.MaxArticles)
	assert.Equal(t, 5, cfg.ArticlesPerSource)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 3, cfg.RelevanceThreshold)
}

func TestGetStable(t *testing.T) {
	assert.Equal(t, Get(), Get())
}
