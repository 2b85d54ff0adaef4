package analysis

import (
	"context"
	"strconv"
	"strings"

	"wellbeing-assessment/internal/assessment"
)

const (
	lowMoodThreshold    = 4
	highStressThreshold = 7
	minScore            = 10
)

var (
	sleepIssueAnswers = []string{"Poorly", "Didn't sleep"}

	fallbackAssessment      = "Assessment based on response patterns. Professional evaluation recommended."
	fallbackRecommendations = []string{
		"Consider speaking with a mental health professional",
		"Practice daily self-care activities",
		"Maintain regular sleep schedule",
	}
)

// RuleBased scores answers with fixed heuristics. It is pure and total.
type RuleBased struct{}

func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

type signals struct {
	lowMood          int
	highStress       int
	negativeThoughts bool
	sleepIssues      bool
}

func collectSignals(answers []assessment.Answer) signals {
	var s signals
	for _, a := range answers {
		switch a.QuestionType {
		case assessment.TypeMoodScale:
			if n, err := strconv.Atoi(strings.TrimSpace(a.Value)); err == nil && n <= lowMoodThreshold {
				s.lowMood++
			}
		case assessment.TypeStressScale:
			if n, err := strconv.Atoi(strings.TrimSpace(a.Value)); err == nil && n >= highStressThreshold {
				s.highStress++
			}
		case assessment.TypeNegativeThoughts:
			if strings.EqualFold(a.Value, "yes") {
				s.negativeThoughts = true
			}
		case assessment.TypeSleepQuality:
			for _, v := range sleepIssueAnswers {
				if a.Value == v {
					s.sleepIssues = true
				}
			}
		}
	}
	return s
}

func (r *RuleBased) Analyze(_ context.Context, answers []assessment.Answer) assessment.Result {
	s := collectSignals(answers)

	conditions := []assessment.Condition{}
	if s.lowMood > 0 || s.sleepIssues {
		conditions = append(conditions, assessment.Condition{
			Code:        "F32.1",
			Name:        "Major Depressive Episode, Moderate",
			Probability: min(30+20*s.lowMood, 80),
			Reasoning:   "Indicators of low mood and potential sleep disturbances",
		})
	}
	if s.highStress > 0 || s.negativeThoughts {
		conditions = append(conditions, assessment.Condition{
			Code:        "F41.1",
			Name:        "Generalized Anxiety Disorder",
			Probability: min(25+15*s.highStress, 70),
			Reasoning:   "High stress levels and negative thought patterns detected",
		})
	}

	score := 100 - 15*s.lowMood - 10*s.highStress
	if s.negativeThoughts {
		score -= 20
	}
	score = max(minScore, score)

	recs := make([]string, len(fallbackRecommendations))
	copy(recs, fallbackRecommendations)

	return assessment.Result{
		Conditions:        conditions,
		OverallAssessment: fallbackAssessment,
		RiskLevel:         assessment.TierForScore(score),
		Recommendations:   recs,
		OverallScore:      score,
	}
}
