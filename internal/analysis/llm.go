package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"wellbeing-assessment/internal/assessment"
)

const DefaultTimeout = 30 * time.Second

// Completer is the language model collaborator: prompt in, free text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLM asks a language model for the assessment and falls back to another
// Analyzer on any failure. The model is called once, never retried.
type LLM struct {
	model    Completer
	fallback Analyzer
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewLLM(model Completer, fallback Analyzer, timeout time.Duration, logger zerolog.Logger) *LLM {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LLM{
		model:    model,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger.With().Str("component", "llm_analyzer").Logger(),
	}
}

func (a *LLM) Analyze(ctx context.Context, answers []assessment.Answer) assessment.Result {
	start := time.Now()

	// An abandoned caller does not cut the model call short; the timeout bounds it.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	reply, err := a.model.Complete(callCtx, BuildPrompt(answers))
	if err != nil {
		a.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("model call failed, using rule-based analysis")
		return a.fallback.Analyze(ctx, answers)
	}

	res, err := ParseReply(reply)
	if err != nil {
		a.logger.Warn().Err(err).Int("reply_len", len(reply)).Msg("unusable model reply, using rule-based analysis")
		return a.fallback.Analyze(ctx, answers)
	}

	a.logger.Debug().
		Int("conditions", len(res.Conditions)).
		Int("overall_score", res.OverallScore).
		Dur("elapsed", time.Since(start)).
		Msg("model analysis complete")
	return res
}
