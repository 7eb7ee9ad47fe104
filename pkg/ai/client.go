package ai

import (
	"context"
	"os"
)

// Client is a minimal single-turn completion client.
type Client interface {
	// CompleteWithSystem sends one prompt with a system instruction and
	// returns the model's text reply.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// NewClientFromEnv returns a client for whichever provider has an API key
// configured, preferring Gemini when both are set. A nil return means no
// key is configured and command parsing runs on rules alone.
func NewClientFromEnv() Client {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return NewGeminiClient(key, os.Getenv("GEMINI_MODEL"))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewOpenAIClient(key, os.Getenv("OPENAI_MODEL"))
	}
	return nil
}
