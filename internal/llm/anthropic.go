// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// anthropicMaxTokens bounds the analysis length.
const anthropicMaxTokens = 8192

// AnthropicMessager is the subset of the Messages service the backend uses,
// so tests can supply a fake.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Anthropic calls the Claude Messages API.
type Anthropic struct {
	messages AnthropicMessager
	model    string
}

// NewAnthropic creates a Claude client.
func NewAnthropic(apiKey, model string) *Anthropic {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Anthropic{messages: &c.Messages, model: model}
}

// ModelName returns the configured model.
func (a *Anthropic) ModelName() string { return a.model }

// Generate sends prompt as a single user message and concatenates the text
// blocks of the reply.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic %s: %w", types.ErrModel, a.model, err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic %s returned no text", types.ErrModel, a.model)
	}
	return sb.String(), nil
}
