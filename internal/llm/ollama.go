package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"marie/internal/logging"
)

const (
	// DefaultOllamaBaseURL is the local daemon's default endpoint.
	DefaultOllamaBaseURL = "http://localhost:11434"

	// DefaultOllamaModel is a small local model good enough for the
	// constrained program-writing task.
	DefaultOllamaModel = "gemma3:4b"

	// ollamaTimeout bounds one chat call. Local models on modest hardware
	// can take a while; past a minute the question should just fail.
	ollamaTimeout = 60 * time.Second
)

// OllamaClient talks to a local Ollama daemon over its chat API.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client

	mu   sync.Mutex
	last TokenUsage
}

// NewOllamaClient creates an Ollama-backed client.
func NewOllamaClient(baseURL, model string) *OllamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: ollamaTimeout},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	// Older daemons answer with response/content at the top level.
	Response        string `json:"response"`
	Content         string `json:"content"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error"`
}

// Complete sends a single user prompt.
func (c *OllamaClient) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt, temperature)
}

// CompleteWithSystem sends a system instruction plus a user prompt.
func (c *OllamaClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "ollama completion")
	defer timer.Stop()

	var messages []ollamaMessage
	if systemPrompt != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: userPrompt})

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]interface{}{"temperature": temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("ollama call failed: %v", err)
		return "", fmt.Errorf("ollama call failed (is the daemon running at %s?): %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama error: %s", parsed.Error)
	}

	text := parsed.Message.Content
	if text == "" {
		text = parsed.Response
	}
	if text == "" {
		text = parsed.Content
	}
	if text == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}

	usage := TokenUsage{Prompt: parsed.PromptEvalCount, Completion: parsed.EvalCount}
	if usage.Prompt == 0 {
		usage.Prompt = estimateTokens(systemPrompt + userPrompt)
	}
	if usage.Completion == 0 {
		usage.Completion = estimateTokens(text)
	}
	c.mu.Lock()
	c.last = usage
	c.mu.Unlock()

	logging.APIDebug("ollama ok: model=%s prompt_tokens=%d completion_tokens=%d", c.model, usage.Prompt, usage.Completion)
	return text, nil
}

// Name identifies the backend.
func (c *OllamaClient) Name() string {
	return fmt.Sprintf("ollama:%s", c.model)
}

// LastUsage reports token usage of the most recent call.
func (c *OllamaClient) LastUsage() TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
