package debate

// State is the accumulating record of one in-progress debate. It is owned
// exclusively by the Orchestrator for the duration of a run: step functions
// receive read-only slices of it and return partial Updates that the
// orchestrator merges back in. Once Finished is set the state is no longer
// mutated.
type State struct {
	ID    string
	Topic string

	CurrentPhase Phase
	RoundNumber  int

	Messages          []Message
	OpeningStatements map[Position]string
	CrossExaminations []CrossExamination
	ClosingStatements map[Position]string
	Scores            []Score
	Verdict           *Verdict

	Finished            bool
	FreeDebateRound     int
	MaxFreeDebateRounds int
}

// NewState constructs the initial state for a debate on the given topic,
// with all collections empty and counters at zero.
func NewState(id, topic string, maxFreeDebateRounds int) *State {
	return &State{
		ID:                  id,
		Topic:               topic,
		CurrentPhase:        PhaseInitialize,
		OpeningStatements:   make(map[Position]string),
		ClosingStatements:   make(map[Position]string),
		MaxFreeDebateRounds: maxFreeDebateRounds,
	}
}

// Update is a partial state change returned by one orchestrator step.
// Nil or zero fields leave the corresponding aggregate field untouched;
// slice fields are appended, map fields are merged.
type Update struct {
	RoundNumber *int

	Messages          []Message
	OpeningStatements map[Position]string
	CrossExaminations []CrossExamination
	ClosingStatements map[Position]string
	Scores            []Score
	Verdict           *Verdict

	Finished        bool
	FreeDebateRound *int
}

// apply merges a partial update into the aggregate. Appends preserve
// emission order, so the message sequence stays strictly chronological.
func (s *State) apply(u Update) {
	if u.RoundNumber != nil {
		s.RoundNumber = *u.RoundNumber
	}
	s.Messages = append(s.Messages, u.Messages...)
	for pos, stmt := range u.OpeningStatements {
		s.OpeningStatements[pos] = stmt
	}
	s.CrossExaminations = append(s.CrossExaminations, u.CrossExaminations...)
	for pos, stmt := range u.ClosingStatements {
		s.ClosingStatements[pos] = stmt
	}
	s.Scores = append(s.Scores, u.Scores...)
	if u.Verdict != nil {
		s.Verdict = u.Verdict
	}
	if u.Finished {
		s.Finished = true
	}
	if u.FreeDebateRound != nil {
		s.FreeDebateRound = *u.FreeDebateRound
	}
}

// History returns a copy of the message sequence accumulated so far.
func (s *State) History() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// Result is the public outcome of a completed (or aborted) debate run.
type Result struct {
	Topic             string              `json:"topic"`
	Messages          []Message           `json:"messages"`
	Verdict           *Verdict            `json:"verdict,omitempty"`
	Scores            []Score             `json:"scores"`
	OpeningStatements map[Position]string `json:"opening_statements"`
	CrossExaminations []CrossExamination  `json:"cross_examinations"`
	ClosingStatements map[Position]string `json:"closing_statements"`
}

// result snapshots the state's public fields. Collections are copied so the
// caller cannot alias orchestrator-owned memory.
func (s *State) result() *Result {
	openings := make(map[Position]string, len(s.OpeningStatements))
	for pos, stmt := range s.OpeningStatements {
		openings[pos] = stmt
	}
	closings := make(map[Position]string, len(s.ClosingStatements))
	for pos, stmt := range s.ClosingStatements {
		closings[pos] = stmt
	}
	crossExams := make([]CrossExamination, len(s.CrossExaminations))
	copy(crossExams, s.CrossExaminations)
	scores := make([]Score, len(s.Scores))
	copy(scores, s.Scores)

	return &Result{
		Topic:             s.Topic,
		Messages:          s.History(),
		Verdict:           s.Verdict,
		Scores:            scores,
		OpeningStatements: openings,
		CrossExaminations: crossExams,
		ClosingStatements: closings,
	}
}
