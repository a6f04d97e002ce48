package completion

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"chat-session/config"
	"chat-session/logger"
	"chat-session/models"
	"chat-session/quota"
)

// contentGenerator is the part of *genai.Models the completer needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter answers prompts and summarizes session names with the Gemini API.
type GeminiCompleter struct {
	models  contentGenerator
	cfg     config.LLMConfig
	limiter *quota.CompletionQuotaLimiter
	aiLogs  AILogRecorder
}

func NewGeminiCompleter(ctx context.Context, cfg config.LLMConfig, apiKey string, httpClient *http.Client, limiter *quota.CompletionQuotaLimiter, aiLogs AILogRecorder) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	return newGeminiCompleter(client.Models, cfg, limiter, aiLogs), nil
}

func newGeminiCompleter(gen contentGenerator, cfg config.LLMConfig, limiter *quota.CompletionQuotaLimiter, aiLogs AILogRecorder) *GeminiCompleter {
	return &GeminiCompleter{models: gen, cfg: cfg, limiter: limiter, aiLogs: aiLogs}
}

func (g *GeminiCompleter) MaxTokens() int {
	return g.cfg.MaxTokens
}

// Ask sends the windowed conversation and reports the model's token usage.
func (g *GeminiCompleter) Ask(ctx context.Context, sessionID, conversation string) (Result, error) {
	result, err := g.generate(ctx, sessionID, models.AIOperationAsk, conversation, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: ASK_SYSTEM_INSTRUCTION}}},
		Temperature:       g.cfg.Temperature,
		TopP:              g.cfg.TopP,
		MaxOutputTokens:   int32(g.cfg.MaxTokens),
	})
	if err != nil {
		return Result{}, err
	}

	out := Result{Text: result.Text()}
	if result.UsageMetadata != nil {
		out.PromptTokens = int(result.UsageMetadata.PromptTokenCount)
		out.ResponseTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// Summarize turns a prompt into a one or two word session label.
func (g *GeminiCompleter) Summarize(ctx context.Context, sessionID, prompt string) (string, error) {
	result, err := g.generate(ctx, sessionID, models.AIOperationSummarize, prompt, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SUMMARIZE_SYSTEM_INSTRUCTION}}},
		Temperature:       genai.Ptr[float32](0),
		TopP:              genai.Ptr[float32](1),
		MaxOutputTokens:   int32(g.cfg.SummaryMaxTokens),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Text()), nil
}

func (g *GeminiCompleter) generate(ctx context.Context, sessionID, operation, input string, genCfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ok, err := g.limiter.WaitAndReserve(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Log.Warnf("completion quota exhausted, skipping %s call (session=%s)", operation, sessionID)
		return nil, ErrQuotaExceeded
	}

	start := time.Now()
	result, err := g.models.GenerateContent(ctx, g.cfg.ModelName, genai.Text(input), genCfg)
	if err == nil && (result == nil || len(result.Candidates) == 0) {
		err = ErrEmptyResponse
	}
	g.record(ctx, sessionID, operation, input, result, err, start)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// record writes the ai_logs entry. Failures are logged and never returned.
func (g *GeminiCompleter) record(ctx context.Context, sessionID, operation, input string, result *genai.GenerateContentResponse, callErr error, start time.Time) {
	completed := time.Now()
	entry := models.AILog{
		SessionID:   sessionID,
		Operation:   operation,
		ModelName:   g.cfg.ModelName,
		DurationMs:  completed.Sub(start).Milliseconds(),
		InputPrompt: input,
		RequestedAt: start,
		CompletedAt: completed,
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.ErrorMessage = &msg
	}
	if result != nil {
		entry.ModelVersion = result.ModelVersion
		if len(result.Candidates) > 0 {
			entry.OutputResponse = result.Text()
		}
		if result.UsageMetadata != nil {
			entry.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
			entry.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
			entry.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		}
	}

	logger.DebugWithFields("completion call finished", logger.Fields{
		"session_id":    sessionID,
		"operation":     operation,
		"model_name":    entry.ModelName,
		"input_tokens":  entry.InputTokens,
		"output_tokens": entry.OutputTokens,
		"duration_ms":   entry.DurationMs,
	})

	if g.aiLogs == nil {
		return
	}
	if err := g.aiLogs.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.Log.Errorf("failed to insert AI log (session=%s): %v", sessionID, err)
	}
}
