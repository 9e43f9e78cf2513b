package agent

import (
	"strings"

	"github.com/podium-ai/podium/internal/debate"
)

// FormatHistory renders an ordered message sequence into the flat text
// block embedded in prompts: one "<Display Name>: <content>" line per
// message, joined by blank lines. Moderator messages are skipped unless
// includeModerator is set; they frame the debate but carry no argument.
func FormatHistory(messages []debate.Message, includeModerator bool) string {
	formatted := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == debate.RoleModerator && !includeModerator {
			continue
		}
		formatted = append(formatted, msg.Role.Display()+": "+msg.Content)
	}
	return strings.Join(formatted, "\n\n")
}
