package assessment

// QuestionID identifies a catalog question. Ids are stable across restarts.
type QuestionID int

type QuestionType string

const (
	TypeMoodScale           QuestionType = "mood_scale"
	TypeMoodFollowUp        QuestionType = "mood_follow_up"
	TypeSleepQuality        QuestionType = "sleep_quality"
	TypeEnergyLevel         QuestionType = "energy_level"
	TypeStressScale         QuestionType = "stress_scale"
	TypeStressCauses        QuestionType = "stress_causes"
	TypeNegativeThoughts    QuestionType = "negative_thoughts"
	TypeThoughtDescription  QuestionType = "thought_description"
	TypeSocialInteraction   QuestionType = "social_interaction"
	TypeDailyActivity       QuestionType = "daily_activity"
	TypeActivityDescription QuestionType = "activity_description"
	TypeActivityBarriers    QuestionType = "activity_barriers"
	TypeGratitude           QuestionType = "gratitude"
	TypePhysicalSymptoms    QuestionType = "physical_symptoms"
	TypeCopingStrategies    QuestionType = "coping_strategies"
	TypeSupportSystem       QuestionType = "support_system"
)

// Scale is an inclusive numeric answer range.
type Scale struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Kind is derived from which answer constraints a question carries.
type Kind string

const (
	KindScale    Kind = "scale"
	KindOptions  Kind = "options"
	KindFreeText Kind = "free_text"
)

// Question is a single catalog entry. Follow-ups carry a parent and a trigger;
// base questions carry neither.
type Question struct {
	ID       QuestionID   `json:"id"`
	Type     QuestionType `json:"question_type"`
	Text     string       `json:"question_text"`
	Options  []string     `json:"options,omitempty"`
	Scale    *Scale       `json:"scale,omitempty"`
	FollowUp bool         `json:"is_follow_up"`
	ParentID QuestionID   `json:"parent_question_id,omitempty"`
	Trigger  *Trigger     `json:"trigger,omitempty"`
}

func (q Question) Kind() Kind {
	switch {
	case q.Scale != nil:
		return KindScale
	case len(q.Options) > 0:
		return KindOptions
	default:
		return KindFreeText
	}
}

// Answer is one question/answer pair as seen by the analyzers.
type Answer struct {
	QuestionID   QuestionID   `json:"question_id"`
	QuestionType QuestionType `json:"question_type"`
	QuestionText string       `json:"question_text"`
	Value        string       `json:"response_value"`
	Elaboration  string       `json:"response_text,omitempty"`
}

type RiskTier string

const (
	RiskLow      RiskTier = "Low"
	RiskModerate RiskTier = "Moderate"
	RiskHigh     RiskTier = "High"
)

// TierForScore maps an overall score onto a risk tier.
func TierForScore(score int) RiskTier {
	switch {
	case score > 70:
		return RiskLow
	case score > 40:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// Condition is a candidate classification with a confidence percentage.
type Condition struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Probability int    `json:"probability"`
	Reasoning   string `json:"reasoning"`
}

// Result is the structured output of an analysis run.
type Result struct {
	Conditions        []Condition `json:"conditions"`
	OverallAssessment string      `json:"overall_assessment"`
	RiskLevel         RiskTier    `json:"risk_level"`
	Recommendations   []string    `json:"recommendations"`
	OverallScore      int         `json:"overall_score"`
}

// Codes returns the condition codes of the result in order.
func (r Result) Codes() []string {
	codes := make([]string, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		codes = append(codes, c.Code)
	}
	return codes
}
