package agent

import (
	"context"
	"fmt"

	"github.com/podium-ai/podium/internal/debate"
	"github.com/podium-ai/podium/internal/llm"
	"github.com/podium-ai/podium/internal/prompt"
)

// introduceMaxTokens bounds the generated introduction.
const introduceMaxTokens = 300

// phaseAnnouncements are the canned transitions the moderator reads out
// between rounds. They are fixed text, not generated.
var phaseAnnouncements = map[debate.RoundType]string{
	debate.RoundOpening:          "We now begin the opening statements. The affirmative side will speak first, followed by the negative side.",
	debate.RoundCrossExamination: "We now move to cross-examination. Each side will question the other in turn.",
	debate.RoundFreeDebate:       "We now enter the free debate. Both sides will argue in alternating turns.",
	debate.RoundClosing:          "We now move to closing statements. The affirmative side will summarize first, followed by the negative side.",
}

// Moderator hosts the debate: it introduces the topic and announces each
// phase. It holds no position on the topic.
type Moderator struct {
	client  llm.Client
	prompts *prompt.Store
}

// NewModerator creates the moderator participant.
func NewModerator(client llm.Client, prompts *prompt.Store) *Moderator {
	return &Moderator{client: client, prompts: prompts}
}

// Role returns debate.RoleModerator.
func (m *Moderator) Role() debate.Role { return debate.RoleModerator }

// Introduce generates the opening introduction for a topic.
func (m *Moderator) Introduce(ctx context.Context, topic string) (string, error) {
	return m.client.Generate(ctx, llm.Request{
		Prompt:       m.prompts.Render(prompt.KeyIntroduce, prompt.Vars{"topic": topic}),
		SystemPrompt: m.prompts.Get(prompt.KeyModeratorSystem),
		MaxTokens:    introduceMaxTokens,
	})
}

// AnnouncePhase returns the canned announcement for a round type.
func (m *Moderator) AnnouncePhase(roundType debate.RoundType) string {
	if text, ok := phaseAnnouncements[roundType]; ok {
		return text
	}
	return fmt.Sprintf("We now enter the %s round.", roundType.Display())
}

// Respond introduces the debate for the opening round and announces the
// phase for every other round.
func (m *Moderator) Respond(ctx context.Context, dc Context) (string, error) {
	if dc.RoundType == debate.RoundOpening {
		return m.Introduce(ctx, dc.Topic)
	}
	return m.AnnouncePhase(dc.RoundType), nil
}
