// Package llm provides the LLM client used to tailor resumes.
// Callers depend on the Generator interface; GeminiClient is the production implementation.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider       Provider
	Model          string
	MaxRetries     int           // extra attempts after a transient failure
	RetryBaseDelay time.Duration // doubled on each subsequent retry
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		Model:          "gemini-3-pro-preview",
		MaxRetries:     2,
		RetryBaseDelay: 2 * time.Second,
	}
}

// WithModel returns a copy of the Config using model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}
