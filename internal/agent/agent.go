// Package agent implements the debate participants: the moderator, the two
// debaters, and the judge. Each participant formats role-specific prompts
// from the template store and calls its own generation client, so different
// roles can be backed by different providers and models.
package agent

import (
	"context"
	"fmt"

	"github.com/podium-ai/podium/internal/debate"
	"github.com/podium-ai/podium/internal/llm"
	"github.com/podium-ai/podium/internal/prompt"
)

// Context carries the slices of debate state a participant needs for a
// generic turn. Participants never see the mutable aggregate.
type Context struct {
	Topic     string
	RoundType debate.RoundType
	History   []debate.Message
}

// Participant is the capability shared by all debate roles. Role-specific
// operations (opening statements, scoring, ...) live on the concrete types.
type Participant interface {
	// Role identifies which debate role this participant plays.
	Role() debate.Role

	// Respond generates a generic turn appropriate for the context's
	// round type.
	Respond(ctx context.Context, dc Context) (string, error)
}

// factory constructs a participant from its generation client and prompts.
type factory func(client llm.Client, prompts *prompt.Store) Participant

// factories is the closed set of participant variants, keyed by role.
var factories = map[debate.Role]factory{
	debate.RoleModerator: func(client llm.Client, prompts *prompt.Store) Participant {
		return NewModerator(client, prompts)
	},
	debate.RoleAffirmative: func(client llm.Client, prompts *prompt.Store) Participant {
		return NewDebater(debate.PositionAffirmative, client, prompts)
	},
	debate.RoleNegative: func(client llm.Client, prompts *prompt.Store) Participant {
		return NewDebater(debate.PositionNegative, client, prompts)
	},
	debate.RoleJudge: func(client llm.Client, prompts *prompt.Store) Participant {
		return NewJudge(client, prompts)
	},
}

// New constructs the participant variant for a role.
func New(role debate.Role, client llm.Client, prompts *prompt.Store) (Participant, error) {
	f, ok := factories[role]
	if !ok {
		return nil, fmt.Errorf("agent: unknown role %q", role)
	}
	return f(client, prompts), nil
}
