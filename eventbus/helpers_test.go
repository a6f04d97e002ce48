package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

func TestNewJSONEventRoundTrip(t *testing.T) {
	evt, err := NewJSONEvent("evt-1", "session.created", samplePayload{SessionID: "s1", Name: "New Chat"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", evt.ID)
	assert.Equal(t, "session.created", evt.Type)

	out, err := DecodeJSON[samplePayload](evt)
	require.NoError(t, err)
	assert.Equal(t, "s1", out.SessionID)
	assert.Equal(t, "New Chat", out.Name)
}

func TestNewJSONEventGeneratesID(t *testing.T) {
	evt, err := NewJSONEvent("", "session.deleted", samplePayload{})
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
}

func TestNewJSONEventRejectsUnmarshalablePayload(t *testing.T) {
	_, err := NewJSONEvent("x", "t", make(chan int))
	assert.Error(t, err)
}

func TestDecodeJSONRejectsMismatchedPayload(t *testing.T) {
	_, err := DecodeJSON[samplePayload](Event{Payload: []byte(`[1,2]`)})
	assert.Error(t, err)
}

func TestGetBrokers(t *testing.T) {
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "")
	_, err := GetBrokers()
	assert.ErrorIs(t, err, ErrBrokersNotConfigured)

	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")
	brokers, err := GetBrokers()
	require.NoError(t, err)
	assert.Equal(t, "localhost:9092", brokers)
}
