package debate

import "time"

// Role identifies the speaker of a debate message.
type Role string

const (
	// RoleModerator hosts the debate and announces phases.
	RoleModerator Role = "moderator"

	// RoleAffirmative argues in favor of the topic.
	RoleAffirmative Role = "affirmative"

	// RoleNegative argues against the topic.
	RoleNegative Role = "negative"

	// RoleJudge scores rounds and delivers the final verdict.
	RoleJudge Role = "judge"
)

// Display returns the human-readable name used when rendering transcripts
// and formatting history for prompts.
func (r Role) Display() string {
	switch r {
	case RoleModerator:
		return "Moderator"
	case RoleAffirmative:
		return "Affirmative"
	case RoleNegative:
		return "Negative"
	case RoleJudge:
		return "Judge"
	default:
		return string(r)
	}
}

// Position is one of the two opposing sides in the debate.
type Position string

const (
	// PositionAffirmative is the side arguing for the topic.
	PositionAffirmative Position = "affirmative"

	// PositionNegative is the side arguing against the topic.
	PositionNegative Position = "negative"
)

// Role returns the debater Role corresponding to the position.
func (p Position) Role() Role {
	if p == PositionNegative {
		return RoleNegative
	}
	return RoleAffirmative
}

// Opponent returns the opposing position.
func (p Position) Opponent() Position {
	if p == PositionAffirmative {
		return PositionNegative
	}
	return PositionAffirmative
}

// Display returns the human-readable name for the position.
func (p Position) Display() string {
	return p.Role().Display()
}

// Valid reports whether p is one of the two recognized positions.
func (p Position) Valid() bool {
	return p == PositionAffirmative || p == PositionNegative
}

// RoundType marks which phase of the debate a message or score belongs to.
type RoundType string

const (
	// RoundOpening covers the moderator introduction and opening statements.
	RoundOpening RoundType = "opening"

	// RoundCrossExamination covers the two question/answer exchanges.
	RoundCrossExamination RoundType = "cross_examination"

	// RoundFreeDebate covers the bounded alternating free-debate rounds.
	RoundFreeDebate RoundType = "free_debate"

	// RoundClosing covers the closing statements.
	RoundClosing RoundType = "closing"
)

// Display returns the human-readable name for the round type.
func (rt RoundType) Display() string {
	switch rt {
	case RoundOpening:
		return "Opening Statements"
	case RoundCrossExamination:
		return "Cross-Examination"
	case RoundFreeDebate:
		return "Free Debate"
	case RoundClosing:
		return "Closing Statements"
	default:
		return string(rt)
	}
}

// Message is one participant turn in the debate. Messages are immutable
// after creation and accumulate in chronological order.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	RoundType RoundType      `json:"round_type"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMessage creates a timestamped message for a participant turn.
func NewMessage(role Role, content string, roundType RoundType) Message {
	return Message{
		Role:      role,
		Content:   content,
		RoundType: roundType,
		CreatedAt: time.Now(),
	}
}

// Scoring weights for the four judged facets. They sum to 1.0; Total is
// always recomputed from these, never trusted from the judge model's output.
const (
	WeightLogic      = 0.30
	WeightEvidence   = 0.25
	WeightRebuttal   = 0.25
	WeightExpression = 0.20
)

// Score is the judge's evaluation of one position in one round.
// Each facet is clamped to [0,100]; Total is the fixed weighted sum.
type Score struct {
	RoundType  RoundType `json:"round_type"`
	Position   Position  `json:"position"`
	Logic      float64   `json:"logic"`
	Evidence   float64   `json:"evidence"`
	Rebuttal   float64   `json:"rebuttal"`
	Expression float64   `json:"expression"`
	Total      float64   `json:"total"`
	Comment    string    `json:"comment,omitempty"`
}

// NewScore builds a Score from raw facet values, clamping each facet to
// [0,100] and computing the weighted total.
func NewScore(roundType RoundType, position Position, logic, evidence, rebuttal, expression float64, comment string) Score {
	s := Score{
		RoundType:  roundType,
		Position:   position,
		Logic:      clampFacet(logic),
		Evidence:   clampFacet(evidence),
		Rebuttal:   clampFacet(rebuttal),
		Expression: clampFacet(expression),
		Comment:    comment,
	}
	s.Total = s.computeTotal()
	return s
}

func (s Score) computeTotal() float64 {
	return s.Logic*WeightLogic +
		s.Evidence*WeightEvidence +
		s.Rebuttal*WeightRebuttal +
		s.Expression*WeightExpression
}

// clampFacet bounds a facet value to [0,100]. Judge models occasionally
// return out-of-range values; scores must stay within the rubric.
func clampFacet(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SumTotals returns the sum of Total over all scores held by the given
// position.
func SumTotals(scores []Score, position Position) float64 {
	var sum float64
	for _, s := range scores {
		if s.Position == position {
			sum += s.Total
		}
	}
	return sum
}

// CrossExamination records one question/answer exchange. Two occur per
// debate: each side questions the other once.
type CrossExamination struct {
	Round      int      `json:"round"`
	Questioner Position `json:"questioner"`
	Responder  Position `json:"responder"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
}

// Winner is the judge's final determination.
type Winner string

const (
	WinnerAffirmative Winner = "affirmative"
	WinnerNegative    Winner = "negative"
	WinnerDraw        Winner = "draw"
)

// ParseWinner maps the judge model's stated winner onto a recognized value,
// falling back to draw for anything unrecognized.
func ParseWinner(s string) Winner {
	switch Winner(s) {
	case WinnerAffirmative, WinnerNegative, WinnerDraw:
		return Winner(s)
	default:
		return WinnerDraw
	}
}

// Verdict is the terminal artifact of a debate: the winner, per-position
// totals, the judge's commentary, and every round score.
type Verdict struct {
	Winner           Winner  `json:"winner"`
	AffirmativeTotal float64 `json:"affirmative_total"`
	NegativeTotal    float64 `json:"negative_total"`
	Comment          string  `json:"comment"`
	Scores           []Score `json:"scores"`
}
