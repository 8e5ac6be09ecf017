package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	client      *googleai.GoogleAI
	model       string
	temperature float64
	maxTokens   int
}

// NewGeminiProvider creates a Gemini provider. The API key comes from
// the GEMINI_API_KEY environment variable unless passed explicitly.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for Gemini")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: 0.4,
		maxTokens:   2048,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// SetTemperature adjusts sampling temperature.
func (p *GeminiProvider) SetTemperature(temp float64) {
	p.temperature = temp
}

// SetMaxTokens adjusts the completion budget.
func (p *GeminiProvider) SetMaxTokens(tokens int) {
	p.maxTokens = tokens
}

// Complete generates a chat completion constrained to JSON output.
func (p *GeminiProvider) Complete(ctx context.Context, messages []Message) (string, error) {
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
		return "", fmt.Errorf("empty response from Gemini")
	}
	return response.Choices[0].Content, nil
}
