package intent

import (
	"strings"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

// FormatTranscript renders history one line per message. Assistant lines
// carry the category they were produced for when known.
func FormatTranscript(msgs []contractx.ConversationMessage) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch m.Role {
		case contractx.RoleAssistant:
			b.WriteString("Assistant")
			if category, _ := m.Metadata["category"].(string); category != "" {
				b.WriteString(" (")
				b.WriteString(category)
				b.WriteString(")")
			}
		default:
			b.WriteString("User")
		}
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(m.Content))
	}
	return b.String()
}

// withoutCurrent drops the trailing user message when it is the text being
// evaluated, so the transcript only holds prior turns.
func withoutCurrent(msgs []contractx.ConversationMessage, text string) []contractx.ConversationMessage {
	if len(msgs) == 0 {
		return msgs
	}
	last := msgs[len(msgs)-1]
	if last.Role == contractx.RoleUser && strings.TrimSpace(last.Content) == strings.TrimSpace(text) {
		return msgs[:len(msgs)-1]
	}
	return msgs
}

func cleanToken(reply string) string {
	return contractx.CleanToken(reply)
}
