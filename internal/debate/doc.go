// Package debate implements the debate workflow: the state machine that
// drives a structured multi-party debate from the moderator's introduction
// through openings, cross-examination, free debate, closings, and the final
// verdict.
//
// The Orchestrator walks a fixed phase graph. Each phase is a step function
// that reads the current State and returns a partial Update; the
// orchestrator merges updates in order, so the transcript is strictly
// chronological. The free-debate phase loops on itself for the configured
// number of rounds, and a zero bound skips it entirely.
//
// Typical usage:
//
//	orc := debate.NewOrchestrator(debate.Participants{
//		Moderator:   moderator,
//		Affirmative: affirmative,
//		Negative:    negative,
//		Judge:       judge,
//	}, debate.WithLogger(log))
//
//	result, err := orc.Run(ctx, "AI will create more jobs than it destroys")
//
// Run returns the accumulated Result even on error, so partial transcripts
// survive a mid-debate failure. An Orchestrator serves one Run at a time.
package debate
