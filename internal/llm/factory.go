package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider names a configured backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// Options carries everything the factory needs to build a client.
type Options struct {
	Provider      Provider
	GeminiAPIKey  string
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string
}

// DetectProvider resolves which backend to use: explicit option first,
// then MARIE_PROVIDER, then Gemini when a key is present, else Ollama.
func DetectProvider(opts Options) Provider {
	if opts.Provider != "" {
		return opts.Provider
	}
	switch strings.ToLower(os.Getenv("MARIE_PROVIDER")) {
	case "gemini":
		return ProviderGemini
	case "ollama":
		return ProviderOllama
	}
	if opts.GeminiAPIKey != "" || os.Getenv("GEMINI_API_KEY") != "" {
		return ProviderGemini
	}
	return ProviderOllama
}

// NewClient builds the configured backend client.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	switch DetectProvider(opts) {
	case ProviderGemini:
		apiKey := opts.GeminiAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		return NewGeminiClient(ctx, apiKey, opts.GeminiModel)
	case ProviderOllama:
		return NewOllamaClient(opts.OllamaBaseURL, opts.OllamaModel), nil
	}
	return nil, fmt.Errorf("unknown provider %q", opts.Provider)
}
