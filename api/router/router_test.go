package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-session/completion"
	"chat-session/config"
	"chat-session/dto"
	"chat-session/quota"
	"chat-session/repositories"
	"chat-session/services"
)

type quotaCompleter struct {
	completion.EchoCompleter
}

func (q *quotaCompleter) Ask(ctx context.Context, sessionID, conversation string) (completion.Result, error) {
	return completion.Result{}, completion.ErrQuotaExceeded
}

func newTestRouter(t *testing.T, completer completion.Completer, health func(ctx context.Context) error) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := services.NewChatService(repositories.NewMemoryChatStore(), completer, nil)
	return New(Options{Chat: svc, Store: "memory", Health: health})
}

func TestHealthReportsCompletionQuota(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := quota.NewCompletionQuotaLimiter(config.CompletionQuotaConfig{RequestsPerDay: 3})
	svc := services.NewChatService(repositories.NewMemoryChatStore(), completion.NewEchoCompleter(2000), nil)
	r := New(Options{Chat: svc, Store: "memory", QuotaRemaining: limiter.Remaining})

	w := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[dto.HealthResponseDTO](t, w)
	require.NotNil(t, health.CompletionQuotaRemaining)
	assert.Equal(t, 3, *health.CompletionQuotaRemaining)

	ok, err := limiter.WaitAndReserve(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	w = do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, 2, *decode[dto.HealthResponseDTO](t, w).CompletionQuotaRemaining)
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter(t, completion.NewEchoCompleter(2000), nil)

	w := do(t, r, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	session := decode[dto.SessionDTO](t, w)
	assert.Equal(t, "New Chat", session.Name)
	base := "/api/v1/sessions/" + session.ID

	w = do(t, r, http.MethodPost, base+"/ask", dto.AskRequestDTO{Prompt: "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Echo: Human: hello", decode[dto.AskResponseDTO](t, w).Response)

	w = do(t, r, http.MethodGet, base+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := decode[[]dto.MessageDTO](t, w)
	require.Len(t, messages, 2)
	assert.Equal(t, "Human", messages[0].Sender)
	assert.Equal(t, "hello", messages[0].Text)
	assert.Positive(t, messages[0].Tokens)
	assert.Equal(t, "Bot", messages[1].Sender)

	w = do(t, r, http.MethodPost, base+"/summarize-name", dto.SummarizeNameRequestDTO{Prompt: "Busan trip planning"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Busan trip", decode[dto.SummarizeNameResponseDTO](t, w).Name)

	w = do(t, r, http.MethodPatch, base, dto.RenameSessionRequestDTO{Name: "Travel"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sessions := decode[[]dto.SessionDTO](t, w)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Travel", sessions[0].Name)

	// the history survives a cache refresh
	w = do(t, r, http.MethodGet, base+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.MessageDTO](t, w), 2)

	w = do(t, r, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, base+"/messages", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	r := newTestRouter(t, completion.NewEchoCompleter(2000), nil)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/v1/sessions/missing/messages", nil},
		{http.MethodPost, "/api/v1/sessions/missing/ask", dto.AskRequestDTO{Prompt: "hi"}},
		{http.MethodPatch, "/api/v1/sessions/missing", dto.RenameSessionRequestDTO{Name: "x"}},
		{http.MethodDelete, "/api/v1/sessions/missing", nil},
		{http.MethodPost, "/api/v1/sessions/missing/summarize-name", dto.SummarizeNameRequestDTO{Prompt: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := do(t, r, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "session_not_found", decode[dto.ErrorResponseDTO](t, w).Error)
		})
	}
}

func TestAskRejectsMissingPrompt(t *testing.T) {
	r := newTestRouter(t, completion.NewEchoCompleter(2000), nil)

	w := do(t, r, http.MethodPost, "/api/v1/sessions", nil)
	session := decode[dto.SessionDTO](t, w)

	w = do(t, r, http.MethodPost, "/api/v1/sessions/"+session.ID+"/ask", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskQuotaExceeded(t *testing.T) {
	r := newTestRouter(t, &quotaCompleter{EchoCompleter: *completion.NewEchoCompleter(2000)}, nil)

	w := do(t, r, http.MethodPost, "/api/v1/sessions", nil)
	session := decode[dto.SessionDTO](t, w)

	w = do(t, r, http.MethodPost, "/api/v1/sessions/"+session.ID+"/ask", dto.AskRequestDTO{Prompt: "hi"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, completion.NewEchoCompleter(2000), nil)
	w := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[dto.HealthResponseDTO](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "memory", health.Store)
	assert.Nil(t, health.CompletionQuotaRemaining)

	r = newTestRouter(t, completion.NewEchoCompleter(2000), func(ctx context.Context) error {
		return errors.New("no primary")
	})
	w = do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decode[dto.HealthResponseDTO](t, w).Status)
}
