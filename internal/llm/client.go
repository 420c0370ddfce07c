package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrMissingAPIKey is returned when no credential is available for the provider.
var ErrMissingAPIKey = errors.New("API key is required")

// Generator produces a single text completion from a system instruction and a user message.
type Generator interface {
	// Generate blocks until the model returns or the call fails
	Generate(ctx context.Context, system, user string) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewGenerator creates the configured provider client wrapped with bounded retry.
func NewGenerator(ctx context.Context, config *Config, apiKey string, opts ...RetryOption) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var inner Generator
	switch config.Provider {
	case ProviderGemini, "":
		client, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		inner = client
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}

	return NewRetryGenerator(inner, config.MaxRetries, config.RetryBaseDelay, opts...), nil
}

// GeminiClient implements Generator for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.Model == "" {
		return nil, fmt.Errorf("no model configured for provider %s", config.Provider)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate sends the system instruction and user message as one request.
// No output token limit is set, so the model's own maximum applies.
func (c *GeminiClient) Generate(ctx context.Context, system, user string) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SystemInstruction = &genai.Content{
		Role:  "system",
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response (finish reason: %s)", candidate.FinishReason)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
