package session

import (
	"time"

	"github.com/google/uuid"

	"wellbeing-assessment/internal/assessment"
	"wellbeing-assessment/internal/matching"
)

// State is the session lifecycle: open -> answering -> complete -> analyzed.
type State string

const (
	StateOpen      State = "open"
	StateAnswering State = "answering"
	StateComplete  State = "complete"
	StateAnalyzed  State = "analyzed"
)

// Subject is the person taking the questionnaire. Email is unique.
type Subject struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Age       *int      `json:"age,omitempty" db:"age"`
	Gender    string    `json:"gender,omitempty" db:"gender"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SubjectID uuid.UUID `json:"subject_id" db:"subject_id"`
	State     State     `json:"state" db:"state"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AnswerRecord is immutable once stored. Resubmitting a question adds a new
// record; readers use the most recent one.
type AnswerRecord struct {
	ID          uuid.UUID             `json:"id" db:"id"`
	SessionID   uuid.UUID             `json:"session_id" db:"session_id"`
	QuestionID  assessment.QuestionID `json:"question_id" db:"question_id"`
	Value       string                `json:"response_value" db:"response_value"`
	Elaboration string                `json:"response_text,omitempty" db:"response_text"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
}

// AnalysisRecord is one stored analysis run together with its matches.
type AnalysisRecord struct {
	ID             uuid.UUID            `json:"id" db:"id"`
	SessionID      uuid.UUID            `json:"session_id" db:"session_id"`
	Analysis       assessment.Result    `json:"analysis" db:"analysis"`
	Clinicians     []matching.Clinician `json:"clinicians" db:"clinicians"`
	TotalResponses int                  `json:"total_responses" db:"total_responses"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
}
