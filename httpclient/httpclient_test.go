package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-session/trace"
)

func TestRoundTripperPropagatesTraceHeaders(t *testing.T) {
	var gotRequestID, gotSpanID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(HeaderRequestID)
		gotSpanID = r.Header.Get(HeaderSpanID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(Config{Timeout: 5 * time.Second})
	ctx := trace.WithRequestAndSpan(context.Background(), "req-42", 0)

	for _, wantSpan := range []string{"1", "2"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/models", nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "req-42", gotRequestID)
		assert.Equal(t, wantSpan, gotSpanID)
	}
}

func TestRoundTripperReturnsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	_, err = NewDefault().Do(req)
	assert.Error(t, err)
}

func TestNewDefaultTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Minute, NewDefault().Timeout)
	assert.Equal(t, time.Second, New(Config{Timeout: time.Second}).Timeout)
}
