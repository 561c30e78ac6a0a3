package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cybersafe-backend/internal/models"
)

func TestMemoryChatStoreAppendFillsIDAndTimestamp(t *testing.T) {
	store := NewMemoryChatStore()

	stored, err := store.Append("chat_MH-MUM-2026-AAAAA", &models.ChatMessage{
		Sender: models.SenderUser,
		Text:   "Any update on my report?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())
	assert.Equal(t, "chat_MH-MUM-2026-AAAAA", stored.ChatID)
}

func TestMemoryChatStoreAppendIsIdempotentByID(t *testing.T) {
	store := NewMemoryChatStore()
	chatID := "chat_MH-MUM-2026-AAAAA"

	stored, err := store.Append(chatID, &models.ChatMessage{
		Sender: models.SenderUser,
		Text:   "Any update on my report?",
	})
	require.NoError(t, err)

	// A retried post carries the same message id and must replace, not
	// duplicate.
	_, err = store.Append(chatID, &models.ChatMessage{
		ID:     stored.ID,
		Sender: models.SenderUser,
		Text:   "Any update on my report?",
	})
	require.NoError(t, err)

	messages, err := store.List(chatID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, stored.ID, messages[0].ID)
}

func TestMemoryChatStoreListOrderedByTimestamp(t *testing.T) {
	store := NewMemoryChatStore()
	chatID := "chat_MH-MUM-2026-AAAAA"
	base := time.Now().UTC()

	_, err := store.Append(chatID, &models.ChatMessage{
		ID: "m2", Sender: models.SenderUser, Text: "second", Timestamp: base.Add(time.Minute),
	})
	require.NoError(t, err)
	_, err = store.Append(chatID, &models.ChatMessage{
		ID: "m1", Sender: models.SenderOfficer, Text: "first", Timestamp: base,
	})
	require.NoError(t, err)

	messages, err := store.List(chatID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
}

func TestMemoryChatStoreListUnknownSession(t *testing.T) {
	store := NewMemoryChatStore()

	messages, err := store.List("chat_no-such-report")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMemoryChatStoreSessionsAreIsolated(t *testing.T) {
	store := NewMemoryChatStore()

	_, err := store.Append("chat_A", &models.ChatMessage{Sender: models.SenderUser, Text: "hello"})
	require.NoError(t, err)

	messages, err := store.List("chat_B")
	require.NoError(t, err)
	assert.Empty(t, messages)
}
