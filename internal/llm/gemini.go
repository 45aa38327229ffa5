package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"marie/internal/logging"
)

// DefaultGeminiModel is used when the config does not name one.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient talks to the Gemini API through the official genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string

	mu   sync.Mutex
	last TokenUsage
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Complete sends a single user prompt.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt, temperature)
}

// CompleteWithSystem sends a system instruction plus a user prompt.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "gemini completion")
	defer timer.Stop()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), config)
	if err != nil {
		logging.APIError("gemini call failed: %v", err)
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	usage := TokenUsage{
		Prompt:     estimateTokens(systemPrompt + userPrompt),
		Completion: estimateTokens(text),
	}
	if resp.UsageMetadata != nil {
		usage.Prompt = int(resp.UsageMetadata.PromptTokenCount)
		usage.Completion = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	c.mu.Lock()
	c.last = usage
	c.mu.Unlock()

	logging.APIDebug("gemini ok: model=%s prompt_tokens=%d completion_tokens=%d", c.model, usage.Prompt, usage.Completion)
	return text, nil
}

// Name identifies the backend.
func (c *GeminiClient) Name() string {
	return fmt.Sprintf("gemini:%s", c.model)
}

// LastUsage reports token usage of the most recent call.
func (c *GeminiClient) LastUsage() TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
