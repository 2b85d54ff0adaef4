// Package analysis turns a session's answers into a structured risk assessment.
//
// Two implementations share the Analyzer interface: RuleBased is a deterministic
// heuristic and LLM asks a language model, delegating to a fallback Analyzer
// whenever the model cannot produce a usable answer.
package analysis

import (
	"context"

	"wellbeing-assessment/internal/assessment"
)

// Analyzer never fails; implementations absorb their own errors.
type Analyzer interface {
	Analyze(ctx context.Context, answers []assessment.Answer) assessment.Result
}
