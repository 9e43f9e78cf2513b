package debate

import (
	"context"
	"fmt"
	"testing"

	"github.com/podium-ai/podium/internal/errors"
)

type fakeModerator struct {
	err error
}

func (m *fakeModerator) Introduce(ctx context.Context, topic string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "welcome to the debate on " + topic, nil
}

// fakeDebater records which operations ran, in order.
type fakeDebater struct {
	position Position
	calls    []string
	failOn   string
	err      error
}

func (d *fakeDebater) Position() Position { return d.position }

func (d *fakeDebater) op(name string) (string, error) {
	d.calls = append(d.calls, name)
	if d.failOn == name {
		return "", d.err
	}
	return string(d.position) + " " + name, nil
}

func (d *fakeDebater) OpeningStatement(ctx context.Context, topic string, wordLimit int) (string, error) {
	return d.op("opening")
}

func (d *fakeDebater) AskQuestion(ctx context.Context, topic, opponentStatement string) (string, error) {
	return d.op("question")
}

func (d *fakeDebater) AnswerQuestion(ctx context.Context, topic, question string, history []Message) (string, error) {
	return d.op("answer")
}

func (d *fakeDebater) FreeDebateTurn(ctx context.Context, topic string, history []Message) (string, error) {
	return d.op("free")
}

func (d *fakeDebater) ClosingStatement(ctx context.Context, topic string, history []Message, wordLimit int) (string, error) {
	return d.op("closing")
}

type fakeJudge struct {
	scored     []Position
	verdict    *Verdict
	nilVerdict bool
	err        error
}

func (j *fakeJudge) ScoreRound(ctx context.Context, topic string, roundType RoundType, position Position, content string) (Score, error) {
	if j.err != nil {
		return Score{}, j.err
	}
	j.scored = append(j.scored, position)
	return NewScore(roundType, position, 80, 80, 80, 80, "scored"), nil
}

func (j *fakeJudge) FinalVerdict(ctx context.Context, topic string, scores []Score, history []Message) (*Verdict, error) {
	if j.err != nil {
		return nil, j.err
	}
	if j.nilVerdict {
		return nil, nil
	}
	if j.verdict != nil {
		return j.verdict, nil
	}
	return &Verdict{
		Winner:           WinnerAffirmative,
		AffirmativeTotal: SumTotals(scores, PositionAffirmative),
		NegativeTotal:    SumTotals(scores, PositionNegative),
		Comment:          "a close debate",
		Scores:           scores,
	}, nil
}

func newTestOrchestrator(t *testing.T, rounds int) (*Orchestrator, *fakeDebater, *fakeDebater, *fakeJudge) {
	t.Helper()

	aff := &fakeDebater{position: PositionAffirmative}
	neg := &fakeDebater{position: PositionNegative}
	judge := &fakeJudge{}

	orc := NewOrchestrator(Participants{
		Moderator:   &fakeModerator{},
		Affirmative: aff,
		Negative:    neg,
		Judge:       judge,
	}, WithMaxFreeDebateRounds(rounds))

	return orc, aff, neg, judge
}

func TestRunMessageOrder(t *testing.T) {
	orc, _, _, _ := newTestOrchestrator(t, 1)

	result, err := orc.Run(context.Background(), "cats vs dogs")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []struct {
		role  Role
		round RoundType
	}{
		{RoleModerator, RoundOpening},
		{RoleAffirmative, RoundOpening},
		{RoleNegative, RoundOpening},
		{RoleAffirmative, RoundCrossExamination},
		{RoleNegative, RoundCrossExamination},
		{RoleNegative, RoundCrossExamination},
		{RoleAffirmative, RoundCrossExamination},
		{RoleAffirmative, RoundFreeDebate},
		{RoleNegative, RoundFreeDebate},
		{RoleAffirmative, RoundClosing},
		{RoleNegative, RoundClosing},
	}

	if len(result.Messages) != len(want) {
		t.Fatalf("len(Messages) = %d, want %d", len(result.Messages), len(want))
	}
	for i, w := range want {
		got := result.Messages[i]
		if got.Role != w.role || got.RoundType != w.round {
			t.Errorf("message %d = %s/%s, want %s/%s", i, got.Role, got.RoundType, w.role, w.round)
		}
	}
}

func TestRunFreeDebateRoundCount(t *testing.T) {
	for _, rounds := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("rounds=%d", rounds), func(t *testing.T) {
			orc, aff, neg, _ := newTestOrchestrator(t, rounds)

			result, err := orc.Run(context.Background(), "topic")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			affFree := countCalls(aff.calls, "free")
			negFree := countCalls(neg.calls, "free")
			if affFree != rounds || negFree != rounds {
				t.Errorf("free turns = %d/%d, want %d each", affFree, negFree, rounds)
			}

			// 9 fixed messages plus two per free round
			if want := 9 + 2*rounds; len(result.Messages) != want {
				t.Errorf("len(Messages) = %d, want %d", len(result.Messages), want)
			}
		})
	}
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestRunOpeningScoresAffirmativeFirst(t *testing.T) {
	orc, _, _, _ := newTestOrchestrator(t, 0)

	result, err := orc.Run(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Scores) != 2 {
		t.Fatalf("len(Scores) = %d, want 2", len(result.Scores))
	}
	if result.Scores[0].Position != PositionAffirmative {
		t.Errorf("Scores[0].Position = %q, want affirmative", result.Scores[0].Position)
	}
	if result.Scores[1].Position != PositionNegative {
		t.Errorf("Scores[1].Position = %q, want negative", result.Scores[1].Position)
	}
}

func TestRunRecordsCrossExaminations(t *testing.T) {
	orc, _, _, _ := newTestOrchestrator(t, 0)

	result, err := orc.Run(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.CrossExaminations) != 2 {
		t.Fatalf("len(CrossExaminations) = %d, want 2", len(result.CrossExaminations))
	}

	first := result.CrossExaminations[0]
	if first.Round != 1 || first.Questioner != PositionAffirmative || first.Responder != PositionNegative {
		t.Errorf("first exchange = %+v, want affirmative questioning negative in round 1", first)
	}
	second := result.CrossExaminations[1]
	if second.Round != 2 || second.Questioner != PositionNegative || second.Responder != PositionAffirmative {
		t.Errorf("second exchange = %+v, want negative questioning affirmative in round 2", second)
	}
}

func TestRunCompletesWithVerdict(t *testing.T) {
	orc, _, _, _ := newTestOrchestrator(t, 1)

	result, err := orc.Run(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Verdict == nil {
		t.Fatal("completed debate should carry a verdict")
	}
	if result.Verdict.Winner != WinnerAffirmative {
		t.Errorf("Winner = %q, want affirmative", result.Verdict.Winner)
	}
	if len(result.OpeningStatements) != 2 || len(result.ClosingStatements) != 2 {
		t.Error("both openings and closings should be recorded")
	}
}

func TestRunToleratesNilVerdict(t *testing.T) {
	orc, _, _, judge := newTestOrchestrator(t, 0)
	judge.nilVerdict = true

	result, err := orc.Run(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Verdict != nil {
		t.Errorf("Verdict = %+v, want nil when the judge returns none", result.Verdict)
	}
	if len(result.Messages) != 9 {
		t.Errorf("len(Messages) = %d, want 9", len(result.Messages))
	}
}

func TestRunReturnsPartialResultOnError(t *testing.T) {
	orc, _, neg, _ := newTestOrchestrator(t, 1)
	neg.failOn = "opening"
	neg.err = errors.NewGenerationError("boom", nil)

	result, err := orc.Run(context.Background(), "topic")
	if err == nil {
		t.Fatal("Run() should fail when the negative opening fails")
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Errorf("error should match ErrGenerationFailed, got %v", err)
	}

	// Everything before the failing phase survives
	if result == nil {
		t.Fatal("partial result should be returned on error")
	}
	if len(result.Messages) != 2 {
		t.Errorf("len(Messages) = %d, want 2 (intro + affirmative opening)", len(result.Messages))
	}
	if result.Verdict != nil {
		t.Error("aborted debate should not carry a verdict")
	}
}

func TestRunCanceledContext(t *testing.T) {
	orc, aff, _, _ := newTestOrchestrator(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orc.Run(ctx, "topic")
	if !errors.Is(err, errors.ErrCanceled) {
		t.Fatalf("error should match ErrCanceled, got %v", err)
	}
	if len(result.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0", len(result.Messages))
	}
	if len(aff.calls) != 0 {
		t.Errorf("no participant should run after cancellation, got %v", aff.calls)
	}
}

func TestNextTransitions(t *testing.T) {
	s := NewState("id", "topic", 2)

	tests := []struct {
		phase Phase
		want  Phase
	}{
		{PhaseInitialize, PhaseOpeningAffirmative},
		{PhaseOpeningAffirmative, PhaseOpeningNegative},
		{PhaseOpeningNegative, PhaseScoreOpening},
		{PhaseScoreOpening, PhaseCrossExam1},
		{PhaseCrossExam1, PhaseCrossExam2},
		{PhaseCrossExam2, PhaseFreeDebate},
		{PhaseClosingAffirmative, PhaseClosingNegative},
		{PhaseClosingNegative, PhaseFinalJudgment},
		{PhaseFinalJudgment, PhaseDone},
	}
	for _, tt := range tests {
		if got := next(tt.phase, s); got != tt.want {
			t.Errorf("next(%s) = %s, want %s", tt.phase, got, tt.want)
		}
	}

	// Free debate loops until the counter reaches the bound
	s.FreeDebateRound = 1
	if got := next(PhaseFreeDebate, s); got != PhaseFreeDebate {
		t.Errorf("next(free_debate) with rounds remaining = %s, want free_debate", got)
	}
	s.FreeDebateRound = 2
	if got := next(PhaseFreeDebate, s); got != PhaseClosingAffirmative {
		t.Errorf("next(free_debate) exhausted = %s, want closing_affirmative", got)
	}

	// Zero rounds skips the phase entirely
	zero := NewState("id", "topic", 0)
	if got := next(PhaseCrossExam2, zero); got != PhaseClosingAffirmative {
		t.Errorf("next(cross_exam_2) with zero rounds = %s, want closing_affirmative", got)
	}
}

func TestRunIDGeneratorOverride(t *testing.T) {
	aff := &fakeDebater{position: PositionAffirmative}
	neg := &fakeDebater{position: PositionNegative}

	orc := NewOrchestrator(Participants{
		Moderator:   &fakeModerator{},
		Affirmative: aff,
		Negative:    neg,
		Judge:       &fakeJudge{},
	},
		WithMaxFreeDebateRounds(0),
		WithIDGenerator(func() string { return "fixed-id" }),
	)

	if _, err := orc.Run(context.Background(), "topic"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
