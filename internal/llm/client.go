// Package llm defines the model-client abstraction used by the analysis
// pipeline and its two adapters: Gemini (cloud) and Ollama (local daemon).
// The pipeline never talks to a provider directly; it sees only Client, so
// backends are swappable per config.
package llm

import "context"

// TokenUsage is the token accounting of a single completed call.
type TokenUsage struct {
	Prompt     int
	Completion int
}

// Client is a text-completion backend.
type Client interface {
	// Complete sends a single user prompt.
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)

	// CompleteWithSystem sends a system instruction plus a user prompt.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)

	// Name identifies the backend ("gemini:<model>", "ollama:<model>").
	Name() string

	// LastUsage reports token usage of the most recent call. Backends
	// that do not report usage estimate it from text length.
	LastUsage() TokenUsage
}

// estimateTokens approximates a token count for backends that do not
// report one. Four characters per token is close enough for usage totals.
func estimateTokens(text string) int {
	return len(text) / 4
}
