package summary

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ollama/ollama/api"
)

type OllamaCompleter struct {
	client *api.Client
	model  string
	mu     sync.Mutex
}

// NewOllamaCompleter creates a completer backed by a local Ollama server,
// for running the digest without any external API key.
func NewOllamaCompleter(host, model string) *OllamaCompleter {
	c := api.NewClient(&url.URL{
		Scheme: "http",
		Host:   host,
		Path:   "/",
	}, &http.Client{})

	return &OllamaCompleter{
		client: c,
		model:  model,
	}
}

func (o *OllamaCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	req := &api.GenerateRequest{
		Model:  o.model,
		System: system,
		Prompt: user,
	}

	var chunks []string
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		chunks = append(chunks, resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.Join(chunks, ""), nil
}
