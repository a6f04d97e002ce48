package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"chat-session/config"
	"chat-session/models"
	"chat-session/quota"
)

const ASK_SYSTEM_INSTRUCTION = `You are an AI assistant that helps people find information.
Provide concise answers that are polite and professional.`

const SUMMARIZE_SYSTEM_INSTRUCTION = `Summarize this prompt in one or two words to use as a label in a button on a web page.
Respond with the label only, without quotes or punctuation.`

// ErrQuotaExceeded is returned when the daily completion quota is used up.
var ErrQuotaExceeded = errors.New("completion quota exceeded")

// ErrEmptyResponse is returned when the model produced no candidate.
var ErrEmptyResponse = errors.New("completion returned no candidates")

// Result is the outcome of a conversation completion.
type Result struct {
	Text           string
	PromptTokens   int
	ResponseTokens int
}

// AILogRecorder persists one usage log per model call.
type AILogRecorder interface {
	Record(ctx context.Context, log models.AILog) error
}

// New builds the completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client, limiter *quota.CompletionQuotaLimiter, aiLogs AILogRecorder) (Completer, error) {
	switch cfg.Provider {
	case "google":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
		return NewGeminiCompleter(ctx, cfg, apiKey, httpClient, limiter, aiLogs)
	case "echo":
		return NewEchoCompleter(cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// Completer is the completion gateway consumed by the chat service.
type Completer interface {
	MaxTokens() int
	Ask(ctx context.Context, sessionID, conversation string) (Result, error)
	Summarize(ctx context.Context, sessionID, prompt string) (string, error)
}
