package completion

import (
	"context"
	"strings"
)

// EchoCompleter is an offline completer for local development and demos.
// It answers with the last line of the conversation.
type EchoCompleter struct {
	maxTokens int
}

func NewEchoCompleter(maxTokens int) *EchoCompleter {
	return &EchoCompleter{maxTokens: maxTokens}
}

func (e *EchoCompleter) MaxTokens() int {
	return e.maxTokens
}

func (e *EchoCompleter) Ask(ctx context.Context, sessionID, conversation string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	last := conversation
	if i := strings.LastIndex(conversation, "\n"); i >= 0 {
		last = conversation[i+1:]
	}
	reply := "Echo: " + last
	return Result{
		Text:           reply,
		PromptTokens:   approxTokens(conversation),
		ResponseTokens: approxTokens(reply),
	}, nil
}

// Summarize keeps the first two words of the prompt.
func (e *EchoCompleter) Summarize(ctx context.Context, sessionID, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	words := strings.Fields(prompt)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " "), nil
}

// approxTokens uses the common four-bytes-per-token estimate.
func approxTokens(s string) int {
	return (len(s) + 3) / 4
}
