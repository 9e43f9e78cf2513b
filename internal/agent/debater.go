package agent

import (
	"context"

	"github.com/podium-ai/podium/internal/debate"
	"github.com/podium-ai/podium/internal/llm"
	"github.com/podium-ai/podium/internal/prompt"
)

// Word limits and token budgets per debater operation. Token budgets scale
// with the word limit where one applies (roughly two tokens per word) and
// are fixed for the short-form turns.
const (
	defaultOpeningWordLimit = 800
	defaultClosingWordLimit = 500

	questionMaxTokens   = 200
	answerMaxTokens     = 500
	freeDebateMaxTokens = 400
)

// Debater argues one side of the debate. The same type serves both
// positions; the position picks the system prompt and the {position}
// label substituted into every template.
type Debater struct {
	position debate.Position
	client   llm.Client
	prompts  *prompt.Store
}

// NewDebater creates a debater for the given position.
func NewDebater(position debate.Position, client llm.Client, prompts *prompt.Store) *Debater {
	return &Debater{position: position, client: client, prompts: prompts}
}

// Role returns the debate role for the debater's position.
func (d *Debater) Role() debate.Role { return d.position.Role() }

// Position returns which side the debater argues.
func (d *Debater) Position() debate.Position { return d.position }

// systemPrompt returns the position-specific system prompt.
func (d *Debater) systemPrompt() string {
	if d.position == debate.PositionNegative {
		return d.prompts.Get(prompt.KeyNegativeSystem)
	}
	return d.prompts.Get(prompt.KeyAffirmativeSystem)
}

// OpeningStatement generates the debater's opening statement.
func (d *Debater) OpeningStatement(ctx context.Context, topic string, wordLimit int) (string, error) {
	if wordLimit <= 0 {
		wordLimit = defaultOpeningWordLimit
	}

	return d.client.Generate(ctx, llm.Request{
		Prompt: d.prompts.Render(prompt.KeyOpening, prompt.Vars{
			"position":   d.position.Display(),
			"topic":      topic,
			"word_limit": wordLimit,
		}),
		SystemPrompt: d.systemPrompt(),
		MaxTokens:    wordLimit * 2,
	})
}

// AskQuestion generates a cross-examination question targeting the
// opponent's statement.
func (d *Debater) AskQuestion(ctx context.Context, topic, opponentStatement string) (string, error) {
	return d.client.Generate(ctx, llm.Request{
		Prompt: d.prompts.Render(prompt.KeyCrossQuestion, prompt.Vars{
			"position":           d.position.Display(),
			"topic":              topic,
			"opponent_statement": opponentStatement,
		}),
		SystemPrompt: d.systemPrompt(),
		MaxTokens:    questionMaxTokens,
	})
}

// AnswerQuestion answers a cross-examination question using the debate
// history for context.
func (d *Debater) AnswerQuestion(ctx context.Context, topic, question string, history []debate.Message) (string, error) {
	return d.client.Generate(ctx, llm.Request{
		Prompt: d.prompts.Render(prompt.KeyCrossResponse, prompt.Vars{
			"position": d.position.Display(),
			"topic":    topic,
			"question": question,
			"history":  FormatHistory(history, false),
		}),
		SystemPrompt: d.systemPrompt(),
		MaxTokens:    answerMaxTokens,
	})
}

// FreeDebateTurn generates one alternating free-debate turn.
func (d *Debater) FreeDebateTurn(ctx context.Context, topic string, history []debate.Message) (string, error) {
	return d.client.Generate(ctx, llm.Request{
		Prompt: d.prompts.Render(prompt.KeyFreeDebate, prompt.Vars{
			"position": d.position.Display(),
			"topic":    topic,
			"history":  FormatHistory(history, false),
		}),
		SystemPrompt: d.systemPrompt(),
		MaxTokens:    freeDebateMaxTokens,
	})
}

// ClosingStatement generates the debater's closing statement from the full
// history.
func (d *Debater) ClosingStatement(ctx context.Context, topic string, history []debate.Message, wordLimit int) (string, error) {
	if wordLimit <= 0 {
		wordLimit = defaultClosingWordLimit
	}

	return d.client.Generate(ctx, llm.Request{
		Prompt: d.prompts.Render(prompt.KeyClosing, prompt.Vars{
			"position":   d.position.Display(),
			"topic":      topic,
			"history":    FormatHistory(history, false),
			"word_limit": wordLimit,
		}),
		SystemPrompt: d.systemPrompt(),
		MaxTokens:    wordLimit * 2,
	})
}

// Respond generates a turn appropriate for the context's round type. The
// cross-examination exchange needs a question or statement, so it has no
// generic form; anything unrecognized falls back to a free-debate turn.
func (d *Debater) Respond(ctx context.Context, dc Context) (string, error) {
	switch dc.RoundType {
	case debate.RoundOpening:
		return d.OpeningStatement(ctx, dc.Topic, defaultOpeningWordLimit)
	case debate.RoundClosing:
		return d.ClosingStatement(ctx, dc.Topic, dc.History, defaultClosingWordLimit)
	default:
		return d.FreeDebateTurn(ctx, dc.Topic, dc.History)
	}
}
