package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbeing-assessment/internal/assessment"
)

func answer(t assessment.QuestionType, value string) assessment.Answer {
	return assessment.Answer{QuestionType: t, Value: value}
}

func TestRuleBased_LowMoodAndPoorSleep(t *testing.T) {
	res := NewRuleBased().Analyze(context.Background(), []assessment.Answer{
		answer(assessment.TypeMoodScale, "3"),
		answer(assessment.TypeSleepQuality, "Poorly"),
	})

	require.Len(t, res.Conditions, 1)
	assert.Equal(t, "F32.1", res.Conditions[0].Code)
	assert.Equal(t, "Major Depressive Episode, Moderate", res.Conditions[0].Name)
	assert.Equal(t, 50, res.Conditions[0].Probability)
	assert.Equal(t, 85, res.OverallScore)
	assert.Equal(t, assessment.RiskLow, res.RiskLevel)
	assert.Len(t, res.Recommendations, 3)
}

func TestRuleBased_HighStressAndNegativeThoughts(t *testing.T) {
	res := NewRuleBased().Analyze(context.Background(), []assessment.Answer{
		answer(assessment.TypeStressScale, "9"),
		answer(assessment.TypeNegativeThoughts, "Yes"),
	})

	require.Len(t, res.Conditions, 1)
	assert.Equal(t, "F41.1", res.Conditions[0].Code)
	assert.Equal(t, 40, res.Conditions[0].Probability)
	assert.Equal(t, 70, res.OverallScore)
	assert.Equal(t, assessment.RiskModerate, res.RiskLevel)
}

func TestRuleBased_ConditionOrderAndCaps(t *testing.T) {
	var answers []assessment.Answer
	for i := 0; i < 4; i++ {
		answers = append(answers,
			answer(assessment.TypeMoodScale, "1"),
			answer(assessment.TypeStressScale, "10"),
		)
	}
	answers = append(answers, answer(assessment.TypeNegativeThoughts, "YES"))

	res := NewRuleBased().Analyze(context.Background(), answers)

	require.Len(t, res.Conditions, 2)
	assert.Equal(t, "F32.1", res.Conditions[0].Code)
	assert.Equal(t, 80, res.Conditions[0].Probability)
	assert.Equal(t, "F41.1", res.Conditions[1].Code)
	assert.Equal(t, 70, res.Conditions[1].Probability)
	assert.Equal(t, 10, res.OverallScore)
	assert.Equal(t, assessment.RiskHigh, res.RiskLevel)
}

func TestRuleBased_Signals(t *testing.T) {
	tests := []struct {
		name      string
		answers   []assessment.Answer
		wantCodes []string
		wantScore int
	}{
		{
			name:      "no answers",
			wantCodes: []string{},
			wantScore: 100,
		},
		{
			name:      "mood boundary",
			answers:   []assessment.Answer{answer(assessment.TypeMoodScale, "5")},
			wantCodes: []string{},
			wantScore: 100,
		},
		{
			name:      "mood at threshold",
			answers:   []assessment.Answer{answer(assessment.TypeMoodScale, "4")},
			wantCodes: []string{"F32.1"},
			wantScore: 85,
		},
		{
			name:      "stress below threshold",
			answers:   []assessment.Answer{answer(assessment.TypeStressScale, "6")},
			wantCodes: []string{},
			wantScore: 100,
		},
		{
			name:      "non numeric scale answers are skipped",
			answers:   []assessment.Answer{answer(assessment.TypeMoodScale, "awful"), answer(assessment.TypeStressScale, "very")},
			wantCodes: []string{},
			wantScore: 100,
		},
		{
			name:      "sleep match is exact",
			answers:   []assessment.Answer{answer(assessment.TypeSleepQuality, "poorly")},
			wantCodes: []string{},
			wantScore: 100,
		},
		{
			name:      "did not sleep",
			answers:   []assessment.Answer{answer(assessment.TypeSleepQuality, "Didn't sleep")},
			wantCodes: []string{"F32.1"},
			wantScore: 100,
		},
		{
			name:      "negative thoughts only",
			answers:   []assessment.Answer{answer(assessment.TypeNegativeThoughts, "yes")},
			wantCodes: []string{"F41.1"},
			wantScore: 80,
		},
		{
			name:      "scale answers under other types are ignored",
			answers:   []assessment.Answer{answer(assessment.TypeEnergyLevel, "1"), answer(assessment.TypeGratitude, "yes")},
			wantCodes: []string{},
			wantScore: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewRuleBased().Analyze(context.Background(), tt.answers)
			assert.Equal(t, tt.wantCodes, res.Codes())
			assert.Equal(t, tt.wantScore, res.OverallScore)
			assert.Equal(t, assessment.TierForScore(tt.wantScore), res.RiskLevel)
		})
	}
}

func TestRuleBased_ScoreAlwaysInRange(t *testing.T) {
	values := []string{"", "0", "1", "4", "5", "7", "10", "-3", "abc", "Yes", "Poorly"}
	types := []assessment.QuestionType{
		assessment.TypeMoodScale,
		assessment.TypeStressScale,
		assessment.TypeNegativeThoughts,
		assessment.TypeSleepQuality,
	}

	for n := 0; n < 12; n++ {
		var answers []assessment.Answer
		for i := 0; i <= n; i++ {
			answers = append(answers, answer(types[i%len(types)], values[(i*7+n)%len(values)]))
		}
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			res := NewRuleBased().Analyze(context.Background(), answers)
			assert.GreaterOrEqual(t, res.OverallScore, 10)
			assert.LessOrEqual(t, res.OverallScore, 100)
			assert.Equal(t, assessment.TierForScore(res.OverallScore), res.RiskLevel)
			assert.Equal(t, res, NewRuleBased().Analyze(context.Background(), answers))
		})
	}
}
