package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider generates text with Google's Gemini API.
type GeminiProvider struct {
	Model       string
	Temperature float32
	client      *genai.Client
}

// NewGeminiProvider creates a Gemini provider. Without an API key the
// provider is returned unconfigured and no client is created. An empty
// baseURL uses the public endpoint.
func NewGeminiProvider(ctx context.Context, model, apiKey, baseURL string) (*GeminiProvider, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	p := &GeminiProvider{Model: model, Temperature: defaultTemperature}
	if apiKey == "" {
		return p, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

// IsConfigured reports whether a client was created.
func (g *GeminiProvider) IsConfigured(context.Context) bool {
	return g.client != nil
}

// Generate requests a JSON response for prompt.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("Gemini API key not configured")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.Temperature),
		MaxOutputTokens:  int32(maxTokens),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return text, nil
}
