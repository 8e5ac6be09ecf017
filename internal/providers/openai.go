package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider implements the Provider interface for OpenAI and any
// OpenAI-compatible endpoint (set baseURL for the latter).
type OpenAIProvider struct {
	client      *openai.LLM
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIProvider creates an OpenAI-compatible provider. The API key
// comes from the OPENAI_API_KEY environment variable unless passed
// explicitly.
func NewOpenAIProvider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIProvider{
		client:      client,
		model:       model,
		temperature: 0.4,
		maxTokens:   2048,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// SetTemperature adjusts sampling temperature.
func (p *OpenAIProvider) SetTemperature(temp float64) {
	p.temperature = temp
}

// SetMaxTokens adjusts the completion budget.
func (p *OpenAIProvider) SetMaxTokens(tokens int) {
	p.maxTokens = tokens
}

// Complete generates a chat completion constrained to JSON output.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	response, err := p.client.GenerateContent(ctx, toContent(messages),
		llms.WithModel(p.model),
		llms.WithTemperature(p.temperature),
		llms.WithMaxTokens(p.maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return response.Choices[0].Content, nil
}
