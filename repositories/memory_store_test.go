package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-session/models"
)

func TestMemoryChatStoreSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChatStore()

	first := models.NewSession("New Chat")
	second := models.NewSession("New Chat")
	require.NoError(t, store.InsertSession(ctx, first))
	require.NoError(t, store.InsertSession(ctx, second))

	second.Name = "Renamed"
	require.NoError(t, store.UpdateSession(ctx, second))

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, "Renamed", sessions[1].Name)
	assert.Empty(t, sessions[1].Messages)

	require.NoError(t, store.DeleteSessionAndMessages(ctx, first.ID))
	sessions, err = store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, second.ID, sessions[0].ID)
}

func TestMemoryChatStoreUpdateUnknownSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChatStore()

	require.NoError(t, store.UpdateSession(ctx, models.NewSession("ghost")))
	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestMemoryChatStoreMessages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChatStore()
	session := models.NewSession("New Chat")
	require.NoError(t, store.InsertSession(ctx, session))

	prompt, err := store.InsertMessage(ctx, models.NewMessage(session.ID, models.SenderHuman, 0, "hello"))
	require.NoError(t, err)

	reply := models.NewMessage(session.ID, models.SenderBot, 7, "hi")
	require.NoError(t, store.UpsertMessagesBatch(ctx, prompt.WithTokens(3), reply))

	history, err := store.GetSessionMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, prompt.ID, history[0].ID)
	assert.Equal(t, 3, history[0].Tokens)
	assert.Equal(t, reply.ID, history[1].ID)

	// returned slices are copies
	history[0].Text = "mutated"
	again, err := store.GetSessionMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again[0].Text)

	require.NoError(t, store.DeleteSessionAndMessages(ctx, session.ID))
	history, err = store.GetSessionMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
