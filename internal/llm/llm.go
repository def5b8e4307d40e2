// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm adapts hosted and local language models to a single
// prompt-in, text-out interface.
package llm

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Generator produces a completion for a single user prompt. Errors are
// wrapped in types.ErrModel.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// Default model names per provider, used when model.name is empty.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOllamaModel    = "llama3.1"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

// New builds the Generator for cfg.Provider. Hosted providers without an
// API key return a nil Generator and no error: callers treat that as "model
// not configured".
func New(ctx context.Context, cfg types.ModelConfig) (Generator, error) {
	switch cfg.Provider {
	case types.ProviderGemini, "":
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewGemini(ctx, cfg.APIKey, orDefault(cfg.Name, DefaultGeminiModel))
	case types.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewAnthropic(cfg.APIKey, orDefault(cfg.Name, DefaultAnthropicModel)), nil
	case types.ProviderOllama:
		return NewOllama(orDefault(cfg.Name, DefaultOllamaModel), cfg.BaseURL)
	case types.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewOpenAI(cfg.APIKey, orDefault(cfg.Name, DefaultOpenAIModel), cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
