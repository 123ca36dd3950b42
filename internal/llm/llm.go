package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Provider is the interface for LLM providers.
type Provider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	IsConfigured(ctx context.Context) bool
}

// Endpoints of the hosted OpenAI-compatible APIs.
const (
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	OpenAIBaseURL = "https://api.openai.com/v1"
)

const defaultTemperature = 0.3

// OllamaProvider is a local Ollama LLM provider.
type OllamaProvider struct {
	Model       string
	BaseURL     string
	Temperature float64
	client      *http.Client
	logger      *zap.Logger
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(model, baseURL string, logger *zap.Logger) *OllamaProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaProvider{
		Model:       model,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Temperature: defaultTemperature,
		client:      &http.Client{Timeout: 120 * time.Second},
		logger:      logger,
	}
}

// IsConfigured checks if Ollama is running and the model is available.
// The check is bounded by ctx and by a 5 second cap.
func (o *OllamaProvider) IsConfigured(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false
	}

	modelBase := strings.SplitN(o.Model, ":", 2)[0]
	for _, m := range result.Models {
		if strings.Contains(m.Name, modelBase) {
			return true
		}
	}
	o.logger.Warn("ollama model not found", zap.String("model", o.Model))
	return false
}

// Generate sends a prompt to Ollama and returns the response. Output is
// constrained to JSON.
func (o *OllamaProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"model": o.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
		"format": "json",
		"options": map[string]any{
			"num_predict": maxTokens,
			"temperature": o.Temperature,
		},
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := postJSON(ctx, o.client, o.BaseURL+"/api/chat", nil, body, &result, "ollama"); err != nil {
		return "", err
	}
	return result.Message.Content, nil
}

// OpenAIProvider talks to any OpenAI-compatible chat completions API,
// including Groq.
type OpenAIProvider struct {
	Name        string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	// JSONMode requests a json_object response format.
	JSONMode bool
	client   *http.Client
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
func NewOpenAIProvider(name, model, baseURL, apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		Name:        name,
		Model:       model,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Temperature: defaultTemperature,
		JSONMode:    true,
		client:      &http.Client{Timeout: 120 * time.Second},
	}
}

// IsConfigured checks if the API key is set.
func (o *OpenAIProvider) IsConfigured(context.Context) bool {
	return o.APIKey != ""
}

// Generate sends a prompt to the chat completions endpoint and returns the response.
func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("%s API key not configured", o.Name)
	}

	body := map[string]any{
		"model": o.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": o.Temperature,
	}
	if o.JSONMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	headers := map[string]string{"Authorization": "Bearer " + o.APIKey}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := postJSON(ctx, o.client, o.BaseURL+"/chat/completions", headers, body, &result, o.Name); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in %s response", o.Name)
	}
	return result.Choices[0].Message.Content, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any, name string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s API error: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s API returned %d: %s", name, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Options selects and configures a provider.
type Options struct {
	Provider    string // groq, openai, ollama or gemini
	Model       string
	BaseURL     string
	OllamaURL   string
	APIKey      string
	Temperature float64
}

// CreateProvider builds the provider named by opts.Provider. The returned
// provider may report IsConfigured false when its credential is
// missing; callers decide whether that is fatal.
func CreateProvider(ctx context.Context, opts Options, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	temp := opts.Temperature
	if temp <= 0 {
		temp = defaultTemperature
	}

	switch strings.ToLower(opts.Provider) {
	case "", "groq":
		p := NewOpenAIProvider("Groq", opts.Model, firstNonEmpty(opts.BaseURL, GroqBaseURL), opts.APIKey)
		p.Temperature = temp
		logger.Debug("using groq provider", zap.String("model", opts.Model))
		return p, nil
	case "openai":
		p := NewOpenAIProvider("OpenAI", opts.Model, firstNonEmpty(opts.BaseURL, OpenAIBaseURL), opts.APIKey)
		p.Temperature = temp
		logger.Debug("using openai provider", zap.String("model", opts.Model))
		return p, nil
	case "ollama":
		p := NewOllamaProvider(opts.Model, firstNonEmpty(opts.OllamaURL, opts.BaseURL, "http://localhost:11434"), logger)
		p.Temperature = temp
		logger.Debug("using ollama provider", zap.String("model", opts.Model))
		return p, nil
	case "gemini":
		p, err := NewGeminiProvider(ctx, opts.Model, opts.APIKey, opts.BaseURL)
		if err != nil {
			return nil, err
		}
		p.Temperature = float32(temp)
		logger.Debug("using gemini provider", zap.String("model", p.Model))
		return p, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
