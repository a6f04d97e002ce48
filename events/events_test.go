package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeEventReportsType(t *testing.T) {
	evt := MessageAnsweredEvent{
		BaseEvent: BaseEvent{
			ID:        "evt-1",
			Type:      MessageAnswered,
			Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Source:    "chat-service",
			Version:   "1.0",
		},
		SessionID:         "s1",
		PromptMessageID:   "m1",
		ResponseMessageID: "m2",
		PromptTokens:      10,
		ResponseTokens:    20,
	}

	data, eventType, err := SerializeEvent(evt)
	require.NoError(t, err)
	assert.Equal(t, MessageAnswered, eventType)
	assert.Contains(t, string(data), `"session_id":"s1"`)
	assert.Contains(t, string(data), `"type":"message.answered"`)

	decoded, err := DeserializeEvent(eventType, data)
	require.NoError(t, err)
	got, ok := decoded.(*MessageAnsweredEvent)
	require.True(t, ok)
	assert.Equal(t, 20, got.ResponseTokens)
	assert.Equal(t, "m2", got.ResponseMessageID)
}

func TestSerializeEventRejectsUnknownType(t *testing.T) {
	_, _, err := SerializeEvent(struct{}{})
	assert.Error(t, err)
}

func TestDeserializeEventRejectsUnknownType(t *testing.T) {
	_, err := DeserializeEvent("post.summarized", []byte(`{}`))
	assert.Error(t, err)
}

func TestDeserializeEventRejectsBadJSON(t *testing.T) {
	_, err := DeserializeEvent(SessionDeleted, []byte(`{`))
	assert.Error(t, err)
}
