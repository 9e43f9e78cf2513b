package debate

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/podium-ai/podium/internal/errors"
	"github.com/podium-ai/podium/internal/logging"
)

// Phase identifies one node of the debate workflow. The orchestrator walks
// the phases in a fixed order, with the free-debate phase looping on itself
// until the configured round count is reached.
type Phase string

const (
	PhaseInitialize         Phase = "initialize"
	PhaseOpeningAffirmative Phase = "opening_affirmative"
	PhaseOpeningNegative    Phase = "opening_negative"
	PhaseScoreOpening       Phase = "score_opening"
	PhaseCrossExam1         Phase = "cross_exam_1"
	PhaseCrossExam2         Phase = "cross_exam_2"
	PhaseFreeDebate         Phase = "free_debate"
	PhaseClosingAffirmative Phase = "closing_affirmative"
	PhaseClosingNegative    Phase = "closing_negative"
	PhaseFinalJudgment      Phase = "final_judgment"
	PhaseDone               Phase = "done"
)

// String returns the phase name.
func (p Phase) String() string { return string(p) }

// next computes the phase following p given the current state. The only
// data-dependent transitions are around the free-debate loop: it is entered
// only when rounds remain and repeats until the counter reaches the maximum.
func next(p Phase, s *State) Phase {
	switch p {
	case PhaseInitialize:
		return PhaseOpeningAffirmative
	case PhaseOpeningAffirmative:
		return PhaseOpeningNegative
	case PhaseOpeningNegative:
		return PhaseScoreOpening
	case PhaseScoreOpening:
		return PhaseCrossExam1
	case PhaseCrossExam1:
		return PhaseCrossExam2
	case PhaseCrossExam2:
		if s.FreeDebateRound < s.MaxFreeDebateRounds {
			return PhaseFreeDebate
		}
		return PhaseClosingAffirmative
	case PhaseFreeDebate:
		if s.FreeDebateRound < s.MaxFreeDebateRounds {
			return PhaseFreeDebate
		}
		return PhaseClosingAffirmative
	case PhaseClosingAffirmative:
		return PhaseClosingNegative
	case PhaseClosingNegative:
		return PhaseFinalJudgment
	default:
		return PhaseDone
	}
}

// Moderator hosts the debate from the orchestrator's point of view.
type Moderator interface {
	Introduce(ctx context.Context, topic string) (string, error)
}

// Debater is the orchestrator's view of one side of the debate.
type Debater interface {
	Position() Position
	OpeningStatement(ctx context.Context, topic string, wordLimit int) (string, error)
	AskQuestion(ctx context.Context, topic, opponentStatement string) (string, error)
	AnswerQuestion(ctx context.Context, topic, question string, history []Message) (string, error)
	FreeDebateTurn(ctx context.Context, topic string, history []Message) (string, error)
	ClosingStatement(ctx context.Context, topic string, history []Message, wordLimit int) (string, error)
}

// Judge is the orchestrator's view of the scoring role.
type Judge interface {
	ScoreRound(ctx context.Context, topic string, roundType RoundType, position Position, content string) (Score, error)
	FinalVerdict(ctx context.Context, topic string, scores []Score, history []Message) (*Verdict, error)
}

// Participants bundles the four roles the orchestrator drives.
type Participants struct {
	Moderator   Moderator
	Affirmative Debater
	Negative    Debater
	Judge       Judge
}

// Orchestrator runs a complete debate through the phase workflow. It owns
// the state for the duration of Run and is not safe for concurrent Runs on
// the same value; create one orchestrator per debate.
type Orchestrator struct {
	participants Participants
	log          *logging.Logger

	maxFreeDebateRounds int
	openingWordLimit    int
	closingWordLimit    int

	newID func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *logging.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithMaxFreeDebateRounds bounds the free-debate loop. Zero skips the
// phase entirely.
func WithMaxFreeDebateRounds(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxFreeDebateRounds = n
		}
	}
}

// WithOpeningWordLimit caps opening statements.
func WithOpeningWordLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.openingWordLimit = n
		}
	}
}

// WithClosingWordLimit caps closing statements.
func WithClosingWordLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.closingWordLimit = n
		}
	}
}

// WithIDGenerator overrides debate ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(o *Orchestrator) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// NewOrchestrator creates an orchestrator over the given participants.
func NewOrchestrator(p Participants, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		participants:        p,
		log:                 logging.NopLogger(),
		maxFreeDebateRounds: 3,
		openingWordLimit:    800,
		closingWordLimit:    500,
		newID:               uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// step advances the state by one phase and returns the partial update to
// merge. Steps never mutate the state directly.
type step func(ctx context.Context, s *State) (Update, error)

// Run executes the full debate workflow on a topic. On error the returned
// Result holds everything accumulated before the failing phase, so partial
// transcripts survive a mid-debate abort. Context cancellation stops the
// workflow before the next phase begins.
func (o *Orchestrator) Run(ctx context.Context, topic string) (*Result, error) {
	s := NewState(o.newID(), topic, o.maxFreeDebateRounds)
	log := o.log.WithDebate(s.ID)

	log.Info("debate starting", "topic", topic, "max_free_debate_rounds", o.maxFreeDebateRounds)

	steps := map[Phase]step{
		PhaseInitialize:         o.stepInitialize,
		PhaseOpeningAffirmative: o.stepOpeningAffirmative,
		PhaseOpeningNegative:    o.stepOpeningNegative,
		PhaseScoreOpening:       o.stepScoreOpening,
		PhaseCrossExam1:         o.stepCrossExam1,
		PhaseCrossExam2:         o.stepCrossExam2,
		PhaseFreeDebate:         o.stepFreeDebate,
		PhaseClosingAffirmative: o.stepClosingAffirmative,
		PhaseClosingNegative:    o.stepClosingNegative,
		PhaseFinalJudgment:      o.stepFinalJudgment,
	}

	for s.CurrentPhase != PhaseDone {
		if err := ctx.Err(); err != nil {
			log.Warn("debate canceled", "phase", s.CurrentPhase.String())
			return s.result(), errors.Wrap(errors.ErrCanceled, "debate aborted during "+s.CurrentPhase.String())
		}

		fn, ok := steps[s.CurrentPhase]
		if !ok {
			return s.result(), errors.New("debate: no step for phase " + s.CurrentPhase.String())
		}

		phaseLog := log.WithPhase(s.CurrentPhase.String())
		phaseLog.Debug("phase starting")

		update, err := fn(ctx, s)
		if err != nil {
			phaseLog.Error("phase failed", "error", err.Error())
			return s.result(), errors.Wrap(err, "debate: "+s.CurrentPhase.String())
		}
		s.apply(update)

		phaseLog.Info("phase complete", "messages", len(s.Messages))
		s.CurrentPhase = next(s.CurrentPhase, s)
	}

	winner := ""
	if s.Verdict != nil {
		winner = string(s.Verdict.Winner)
	}
	log.Info("debate finished", "messages", len(s.Messages), "winner", winner)
	return s.result(), nil
}

// stepInitialize emits the moderator's generated introduction.
func (o *Orchestrator) stepInitialize(ctx context.Context, s *State) (Update, error) {
	intro, err := o.participants.Moderator.Introduce(ctx, s.Topic)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Messages: []Message{NewMessage(RoleModerator, intro, RoundOpening)},
	}, nil
}

// stepOpeningAffirmative emits the affirmative opening statement.
func (o *Orchestrator) stepOpeningAffirmative(ctx context.Context, s *State) (Update, error) {
	return o.opening(ctx, s, o.participants.Affirmative)
}

// stepOpeningNegative emits the negative opening statement.
func (o *Orchestrator) stepOpeningNegative(ctx context.Context, s *State) (Update, error) {
	return o.opening(ctx, s, o.participants.Negative)
}

func (o *Orchestrator) opening(ctx context.Context, s *State, d Debater) (Update, error) {
	stmt, err := d.OpeningStatement(ctx, s.Topic, o.openingWordLimit)
	if err != nil {
		return Update{}, err
	}
	pos := d.Position()
	return Update{
		Messages:          []Message{NewMessage(pos.Role(), stmt, RoundOpening)},
		OpeningStatements: map[Position]string{pos: stmt},
	}, nil
}

// stepScoreOpening scores both opening statements. The two scoring calls
// run concurrently; the affirmative score is always appended first so the
// score order stays deterministic. Either failure aborts the phase without
// merging the other result.
func (o *Orchestrator) stepScoreOpening(ctx context.Context, s *State) (Update, error) {
	var (
		wg                 sync.WaitGroup
		affScore, negScore Score
		affErr, negErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		affScore, affErr = o.participants.Judge.ScoreRound(ctx, s.Topic, RoundOpening,
			PositionAffirmative, s.OpeningStatements[PositionAffirmative])
	}()
	go func() {
		defer wg.Done()
		negScore, negErr = o.participants.Judge.ScoreRound(ctx, s.Topic, RoundOpening,
			PositionNegative, s.OpeningStatements[PositionNegative])
	}()
	wg.Wait()

	if affErr != nil {
		return Update{}, affErr
	}
	if negErr != nil {
		return Update{}, negErr
	}

	return Update{Scores: []Score{affScore, negScore}}, nil
}

// stepCrossExam1 runs the first exchange: affirmative questions, negative
// answers.
func (o *Orchestrator) stepCrossExam1(ctx context.Context, s *State) (Update, error) {
	return o.crossExam(ctx, s, 1, o.participants.Affirmative, o.participants.Negative)
}

// stepCrossExam2 runs the second exchange: negative questions, affirmative
// answers.
func (o *Orchestrator) stepCrossExam2(ctx context.Context, s *State) (Update, error) {
	return o.crossExam(ctx, s, 2, o.participants.Negative, o.participants.Affirmative)
}

func (o *Orchestrator) crossExam(ctx context.Context, s *State, round int, questioner, responder Debater) (Update, error) {
	opponentStatement := s.OpeningStatements[responder.Position()]

	question, err := questioner.AskQuestion(ctx, s.Topic, opponentStatement)
	if err != nil {
		return Update{}, err
	}

	// The responder sees the question in its history before answering.
	questionMsg := NewMessage(questioner.Position().Role(), question, RoundCrossExamination)
	history := append(s.History(), questionMsg)

	answer, err := responder.AnswerQuestion(ctx, s.Topic, question, history)
	if err != nil {
		return Update{}, err
	}

	return Update{
		Messages: []Message{
			questionMsg,
			NewMessage(responder.Position().Role(), answer, RoundCrossExamination),
		},
		CrossExaminations: []CrossExamination{{
			Round:      round,
			Questioner: questioner.Position(),
			Responder:  responder.Position(),
			Question:   question,
			Answer:     answer,
		}},
	}, nil
}

// stepFreeDebate runs one free-debate round: an affirmative turn followed by
// a negative turn, each seeing the freshest history. The round counter
// advances only after both turns succeed.
func (o *Orchestrator) stepFreeDebate(ctx context.Context, s *State) (Update, error) {
	affTurn, err := o.participants.Affirmative.FreeDebateTurn(ctx, s.Topic, s.History())
	if err != nil {
		return Update{}, err
	}
	affMsg := NewMessage(RoleAffirmative, affTurn, RoundFreeDebate)

	negTurn, err := o.participants.Negative.FreeDebateTurn(ctx, s.Topic, append(s.History(), affMsg))
	if err != nil {
		return Update{}, err
	}

	round := s.FreeDebateRound + 1
	return Update{
		Messages: []Message{
			affMsg,
			NewMessage(RoleNegative, negTurn, RoundFreeDebate),
		},
		FreeDebateRound: &round,
	}, nil
}

// stepClosingAffirmative emits the affirmative closing statement.
func (o *Orchestrator) stepClosingAffirmative(ctx context.Context, s *State) (Update, error) {
	return o.closing(ctx, s, o.participants.Affirmative)
}

// stepClosingNegative emits the negative closing statement.
func (o *Orchestrator) stepClosingNegative(ctx context.Context, s *State) (Update, error) {
	return o.closing(ctx, s, o.participants.Negative)
}

func (o *Orchestrator) closing(ctx context.Context, s *State, d Debater) (Update, error) {
	stmt, err := d.ClosingStatement(ctx, s.Topic, s.History(), o.closingWordLimit)
	if err != nil {
		return Update{}, err
	}
	pos := d.Position()
	return Update{
		Messages:          []Message{NewMessage(pos.Role(), stmt, RoundClosing)},
		ClosingStatements: map[Position]string{pos: stmt},
	}, nil
}

// stepFinalJudgment asks the judge for the verdict and marks the debate
// finished. The verdict emits no message; it is a separate artifact on the
// result.
func (o *Orchestrator) stepFinalJudgment(ctx context.Context, s *State) (Update, error) {
	verdict, err := o.participants.Judge.FinalVerdict(ctx, s.Topic, s.Scores, s.History())
	if err != nil {
		return Update{}, err
	}
	return Update{
		Verdict:  verdict,
		Finished: true,
	}, nil
}
