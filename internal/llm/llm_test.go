// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"google.golang.org/genai"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// --- New ---

func TestNew_NoCredentialMeansUnconfigured(t *testing.T) {
	for _, p := range []types.ModelProvider{types.ProviderGemini, types.ProviderAnthropic, types.ProviderOpenAI} {
		t.Run(string(p), func(t *testing.T) {
			g, err := New(context.Background(), types.ModelConfig{Provider: p})
			require.NoError(t, err)
			assert.Nil(t, g)
		})
	}
}

func TestNew_Providers(t *testing.T) {
	g, err := New(context.Background(), types.ModelConfig{Provider: types.ProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultAnthropicModel, g.ModelName())

	g, err = New(context.Background(), types.ModelConfig{Provider: types.ProviderOllama, Name: "mistral", BaseURL: "http://127.0.0.1:11434"})
	require.NoError(t, err)
	assert.Equal(t, "mistral", g.ModelName())

	g, err = New(context.Background(), types.ModelConfig{Provider: types.ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, g.ModelName())

	_, err = New(context.Background(), types.ModelConfig{Provider: "palm", APIKey: "k"})
	assert.Error(t, err)
}

// --- Anthropic ---

type fakeMessager struct {
	resp   *anthropic.Message
	err    error
	params anthropic.MessageNewParams
}

func (f *fakeMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = params
	return f.resp, f.err
}

func TestAnthropic_Generate(t *testing.T) {
	fake := &fakeMessager{resp: &anthropic.Message{Content: []anthropic.ContentBlockUnion{
		{Type: "text", Text: "Hello, "},
		{Type: "tool_use"},
		{Type: "text", Text: "world"},
	}}}
	a := &Anthropic{messages: fake, model: "claude-test"}

	got, err := a.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", got)
	assert.Equal(t, anthropic.Model("claude-test"), fake.params.Model)
	assert.Equal(t, int64(anthropicMaxTokens), fake.params.MaxTokens)
	require.Len(t, fake.params.Messages, 1)
}

func TestAnthropic_Errors(t *testing.T) {
	a := &Anthropic{messages: &fakeMessager{err: errors.New("boom")}, model: "m"}
	_, err := a.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, types.ErrModel)

	a = &Anthropic{messages: &fakeMessager{resp: &anthropic.Message{}}, model: "m"}
	_, err = a.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, types.ErrModel)
}

// --- Gemini ---

type fakeModels struct {
	text  string
	err   error
	model string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: genai.NewContentFromText(f.text, genai.RoleModel)},
	}}, nil
}

func TestGemini_Generate(t *testing.T) {
	fake := &fakeModels{text: "87"}
	g := &Gemini{models: fake, model: "gemini-test"}

	got, err := g.Generate(context.Background(), "score this")
	require.NoError(t, err)
	assert.Equal(t, "87", got)
	assert.Equal(t, "gemini-test", fake.model)

	g = &Gemini{models: &fakeModels{err: errors.New("quota")}, model: "m"}
	_, err = g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, types.ErrModel)
}

// --- Chain ---

type fakeChainModel struct {
	reply string
	err   error
}

func (f *fakeChainModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeChainModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, opts...)
}

func TestChain_Generate(t *testing.T) {
	c := &Chain{llm: &fakeChainModel{reply: "analysis"}, provider: "ollama", model: "m"}
	got, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "analysis", got)

	c = &Chain{llm: &fakeChainModel{err: errors.New("down")}, provider: "ollama", model: "m"}
	_, err = c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, types.ErrModel)
}
