package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatSessionIDRoundTrip(t *testing.T) {
	chatID := ChatSessionIDFor("MH-MUM-2026-ABCDE")
	assert.Equal(t, "chat_MH-MUM-2026-ABCDE", chatID)

	reportID, ok := ReportIDFromChatSession(chatID)
	assert.True(t, ok)
	assert.Equal(t, "MH-MUM-2026-ABCDE", reportID)
}

func TestReportIDFromChatSessionMalformed(t *testing.T) {
	for _, chatID := range []string{"", "chat_", "session_MH-MUM-2026-ABCDE", "MH-MUM-2026-ABCDE"} {
		_, ok := ReportIDFromChatSession(chatID)
		assert.False(t, ok, "chat id %q", chatID)
	}
}

func TestValidSender(t *testing.T) {
	assert.True(t, ValidSender(SenderUser))
	assert.True(t, ValidSender(SenderOfficer))
	assert.False(t, ValidSender("admin"))
	assert.False(t, ValidSender(""))
}
