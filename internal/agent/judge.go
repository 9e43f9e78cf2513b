package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/podium-ai/podium/internal/debate"
	"github.com/podium-ai/podium/internal/llm"
	"github.com/podium-ai/podium/internal/prompt"
)

// Judge scores individual rounds and delivers the final verdict. Both
// operations request JSON-mode output from the generation service.
type Judge struct {
	client  llm.Client
	prompts *prompt.Store
}

// NewJudge creates the judge participant.
func NewJudge(client llm.Client, prompts *prompt.Store) *Judge {
	return &Judge{client: client, prompts: prompts}
}

// Role returns debate.RoleJudge.
func (j *Judge) Role() debate.Role { return debate.RoleJudge }

// ScoreRound asks the judge model to score one position's content in one
// round. Missing facets in the response default to 0; every facet is
// clamped to [0,100] and the total is recomputed from the fixed weights
// regardless of anything the model claims.
func (j *Judge) ScoreRound(ctx context.Context, topic string, roundType debate.RoundType, position debate.Position, content string) (debate.Score, error) {
	resp, err := j.client.GenerateJSON(ctx, llm.Request{
		Prompt: j.prompts.Render(prompt.KeyJudgeScoring, prompt.Vars{
			"round":    roundType.Display(),
			"topic":    topic,
			"position": position.Display(),
			"content":  content,
		}),
		SystemPrompt: j.prompts.Get(prompt.KeyJudgeSystem),
	})
	if err != nil {
		return debate.Score{}, err
	}

	return debate.NewScore(
		roundType,
		position,
		numberField(resp, "logic"),
		numberField(resp, "evidence"),
		numberField(resp, "rebuttal"),
		numberField(resp, "expression"),
		stringField(resp, "comment"),
	), nil
}

// FinalVerdict asks the judge model to decide the debate from the
// accumulated scores and the full history. Position totals fall back to
// the computed sums whenever the model omits them; the winner falls back
// to draw when unrecognized.
func (j *Judge) FinalVerdict(ctx context.Context, topic string, scores []debate.Score, history []debate.Message) (*debate.Verdict, error) {
	affirmativeTotal := debate.SumTotals(scores, debate.PositionAffirmative)
	negativeTotal := debate.SumTotals(scores, debate.PositionNegative)

	resp, err := j.client.GenerateJSON(ctx, llm.Request{
		Prompt: j.prompts.Render(prompt.KeyFinalVerdict, prompt.Vars{
			"topic":              topic,
			"affirmative_scores": formatScores(scores, debate.PositionAffirmative),
			"negative_scores":    formatScores(scores, debate.PositionNegative),
			"history":            FormatHistory(history, false),
		}),
		SystemPrompt: j.prompts.Get(prompt.KeyJudgeSystem),
	})
	if err != nil {
		return nil, err
	}

	verdict := &debate.Verdict{
		Winner:           debate.ParseWinner(stringField(resp, "winner")),
		AffirmativeTotal: affirmativeTotal,
		NegativeTotal:    negativeTotal,
		Comment:          stringField(resp, "comment"),
		Scores:           scores,
	}
	if v, ok := resp["affirmative_total"]; ok {
		verdict.AffirmativeTotal = asNumber(v)
	}
	if v, ok := resp["negative_total"]; ok {
		verdict.NegativeTotal = asNumber(v)
	}

	return verdict, nil
}

// Respond delivers a verdict comment for a generic turn. The judge is
// normally driven through ScoreRound and FinalVerdict.
func (j *Judge) Respond(ctx context.Context, dc Context) (string, error) {
	verdict, err := j.FinalVerdict(ctx, dc.Topic, nil, dc.History)
	if err != nil {
		return "", err
	}
	return verdict.Comment, nil
}

// formatScores renders the per-round totals for one position, e.g.
// "opening: 82.5, free_debate: 78.0".
func formatScores(scores []debate.Score, position debate.Position) string {
	parts := make([]string, 0, len(scores))
	for _, s := range scores {
		if s.Position == position {
			parts = append(parts, fmt.Sprintf("%s: %.1f", s.RoundType, s.Total))
		}
	}
	return strings.Join(parts, ", ")
}

// numberField reads a numeric field from a decoded JSON object, defaulting
// to 0 when the key is missing or not a number.
func numberField(m map[string]any, key string) float64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	return asNumber(v)
}

func asNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// stringField reads a string field from a decoded JSON object, defaulting
// to the empty string.
func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
