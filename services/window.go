package services

import (
	"strings"

	"chat-session/models"
)

// BuildConversation renders history as "<Sender>: <text>" lines, adds the prompt as
// the last Human line and keeps only the trailing budget bytes.
// The cut may land inside a message or a multi-byte rune. budget <= 0 keeps everything.
func BuildConversation(history []models.Message, prompt string, budget int) string {
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.String())
		b.WriteByte('\n')
	}
	b.WriteString(string(models.SenderHuman))
	b.WriteString(": ")
	b.WriteString(prompt)

	conversation := b.String()
	if budget > 0 && len(conversation) > budget {
		return conversation[len(conversation)-budget:]
	}
	return conversation
}
