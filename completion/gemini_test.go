package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"chat-session/config"
	"chat-session/models"
	"chat-session/quota"
)

type fakeGenerator struct {
	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

type recordedLogs struct {
	logs []models.AILog
	err  error
}

func (r *recordedLogs) Record(ctx context.Context, log models.AILog) error {
	r.logs = append(r.logs, log)
	return r.err
}

func textResponse(text string, promptTokens, candidateTokens int32) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}}},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     promptTokens,
			CandidatesTokenCount: candidateTokens,
			TotalTokenCount:      promptTokens + candidateTokens,
		},
		ModelVersion: "gemini-test-001",
	}
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:         "google",
		ModelName:        "gemini-test",
		MaxTokens:        1000,
		Temperature:      genai.Ptr[float32](0.3),
		TopP:             genai.Ptr[float32](0.5),
		SummaryMaxTokens: 200,
	}
}

func TestGeminiAskReportsTokenUsage(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Goroutines are cheap threads.", 31, 7)}
	logs := &recordedLogs{}
	c := newGeminiCompleter(gen, testLLMConfig(), nil, logs)

	result, err := c.Ask(context.Background(), "s1", "Human: what is a goroutine?")
	require.NoError(t, err)

	assert.Equal(t, "Goroutines are cheap threads.", result.Text)
	assert.Equal(t, 31, result.PromptTokens)
	assert.Equal(t, 7, result.ResponseTokens)

	assert.Equal(t, "gemini-test", gen.model)
	require.Len(t, gen.contents, 1)
	assert.Equal(t, "Human: what is a goroutine?", gen.contents[0].Parts[0].Text)
	assert.Equal(t, ASK_SYSTEM_INSTRUCTION, gen.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(1000), gen.config.MaxOutputTokens)
	assert.InDelta(t, 0.3, *gen.config.Temperature, 0.0001)
	assert.InDelta(t, 0.5, *gen.config.TopP, 0.0001)

	require.Len(t, logs.logs, 1)
	entry := logs.logs[0]
	assert.Equal(t, "s1", entry.SessionID)
	assert.Equal(t, models.AIOperationAsk, entry.Operation)
	assert.Equal(t, int64(31), entry.InputTokens)
	assert.Equal(t, int64(7), entry.OutputTokens)
	assert.Equal(t, int64(38), entry.TotalTokens)
	assert.Equal(t, "gemini-test-001", entry.ModelVersion)
	assert.Nil(t, entry.ErrorMessage)
}

func TestGeminiAskSendsZeroTemperature(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok", 1, 1)}
	cfg := testLLMConfig()
	cfg.Temperature = genai.Ptr[float32](0)
	c := newGeminiCompleter(gen, cfg, nil, nil)

	_, err := c.Ask(context.Background(), "s1", "Human: hi")
	require.NoError(t, err)

	require.NotNil(t, gen.config.Temperature)
	assert.Zero(t, *gen.config.Temperature)
}

func TestGeminiSummarizeTrimsLabel(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("  Go Concurrency\n", 12, 3)}
	c := newGeminiCompleter(gen, testLLMConfig(), nil, nil)

	label, err := c.Summarize(context.Background(), "s1", "how do channels work in go")
	require.NoError(t, err)

	assert.Equal(t, "Go Concurrency", label)
	assert.Equal(t, SUMMARIZE_SYSTEM_INSTRUCTION, gen.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(200), gen.config.MaxOutputTokens)
	assert.InDelta(t, 0, *gen.config.Temperature, 0.0001)
}

func TestGeminiErrorPassesThroughAndIsLogged(t *testing.T) {
	boom := errors.New("quota exceeded on provider side")
	gen := &fakeGenerator{err: boom}
	logs := &recordedLogs{}
	c := newGeminiCompleter(gen, testLLMConfig(), nil, logs)

	_, err := c.Ask(context.Background(), "s1", "hello")
	assert.ErrorIs(t, err, boom)

	require.Len(t, logs.logs, 1)
	require.NotNil(t, logs.logs[0].ErrorMessage)
	assert.Equal(t, boom.Error(), *logs.logs[0].ErrorMessage)
}

func TestGeminiEmptyCandidates(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{}}
	c := newGeminiCompleter(gen, testLLMConfig(), nil, nil)

	_, err := c.Ask(context.Background(), "s1", "hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiAILogFailureIsNotReturned(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok", 1, 1)}
	logs := &recordedLogs{err: errors.New("mongo down")}
	c := newGeminiCompleter(gen, testLLMConfig(), nil, logs)

	result, err := c.Ask(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
}

func TestGeminiQuotaExceededSkipsCall(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok", 1, 1)}
	limiter := quota.NewCompletionQuotaLimiter(config.CompletionQuotaConfig{RequestsPerDay: 1})
	c := newGeminiCompleter(gen, testLLMConfig(), limiter, nil)

	_, err := c.Ask(context.Background(), "s1", "first")
	require.NoError(t, err)

	_, err = c.Summarize(context.Background(), "s1", "second")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, gen.calls)
}

func TestGeminiMaxTokens(t *testing.T) {
	c := newGeminiCompleter(&fakeGenerator{}, testLLMConfig(), nil, nil)
	assert.Equal(t, 1000, c.MaxTokens())
}
