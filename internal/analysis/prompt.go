package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"wellbeing-assessment/internal/assessment"
)

const neutralScore = 5.0

const promptTemplate = `Analyze the following mental health assessment responses and provide a structured analysis:

%s
Average mood score: %s/10
Average stress level: %s/10

Please provide your analysis in this exact JSON format:
{
    "conditions": [
        {
            "code": "F32.1",
            "name": "Major Depressive Episode, Moderate",
            "probability": 75,
            "reasoning": "Based on low mood scores and sleep disturbances"
        }
    ],
    "overall_assessment": "Brief summary of mental health status",
    "risk_level": "Low/Moderate/High",
    "recommendations": ["Specific recommendation 1", "Recommendation 2"],
    "overall_score": 65
}

Consider these ICD-10 codes:
- F32.x (Depressive Episodes)
- F41.x (Anxiety Disorders)
- F43.x (Stress-related Disorders)
- F40.x (Phobic Disorders)
- F42.x (OCD)
- F50.x (Eating Disorders)

Be conservative with probability scores and focus on actionable insights.`

// BuildPrompt renders the answers into the model request.
func BuildPrompt(answers []assessment.Answer) string {
	var transcript strings.Builder
	var mood, stress []int

	for _, a := range answers {
		text := a.QuestionText
		if text == "" {
			text = "Unknown"
		}
		fmt.Fprintf(&transcript, "Question: %s\n", text)
		fmt.Fprintf(&transcript, "Answer: %s\n\n", strings.TrimSpace(a.Value+" "+a.Elaboration))

		switch a.QuestionType {
		case assessment.TypeMoodScale:
			if n, err := strconv.Atoi(strings.TrimSpace(a.Value)); err == nil {
				mood = append(mood, n)
			}
		case assessment.TypeStressScale:
			if n, err := strconv.Atoi(strings.TrimSpace(a.Value)); err == nil {
				stress = append(stress, n)
			}
		}
	}

	return fmt.Sprintf(promptTemplate,
		transcript.String(),
		formatMean(mean(mood)),
		formatMean(mean(stress)),
	)
}

// mean falls back to a neutral score so the prompt stays well formed.
func mean(values []int) float64 {
	if len(values) == 0 {
		return neutralScore
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func formatMean(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
