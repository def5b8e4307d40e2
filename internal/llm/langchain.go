// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Chain wraps a langchaingo model; it serves the Ollama and OpenAI providers.
type Chain struct {
	llm      llms.Model
	provider string
	model    string
}

// NewOllama creates a local Ollama model. An empty serverURL uses the
// library default.
func NewOllama(model, serverURL string) (*Chain, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return &Chain{llm: m, provider: "ollama", model: model}, nil
}

// NewOpenAI creates an OpenAI (or compatible, via baseURL) model.
func NewOpenAI(apiKey, model, baseURL string) (*Chain, error) {
	opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return &Chain{llm: m, provider: "openai", model: model}, nil
}

// ModelName returns the configured model.
func (c *Chain) ModelName() string { return c.model }

// Generate runs a single-prompt completion.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", types.ErrModel, c.provider, c.model, err)
	}
	return out, nil
}
