package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"wellbeing-assessment/internal/assessment"
)

// Repository is the storage boundary for subjects, sessions, answers and
// analyses. Deleting a session removes its answers and analyses.
type Repository interface {
	CreateSubject(ctx context.Context, s *Subject) error
	GetSubject(ctx context.Context, id uuid.UUID) (*Subject, error)
	DeleteSubject(ctx context.Context, id uuid.UUID) error

	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateSessionState(ctx context.Context, id uuid.UUID, state State) error
	DeleteSession(ctx context.Context, id uuid.UUID) error

	AppendAnswer(ctx context.Context, a *AnswerRecord) error
	ListAnswers(ctx context.Context, sessionID uuid.UUID) ([]AnswerRecord, error)
	LatestAnswers(ctx context.Context, sessionID uuid.UUID) (map[assessment.QuestionID]AnswerRecord, error)

	SaveAnalysis(ctx context.Context, a *AnalysisRecord) error
	LatestAnalysis(ctx context.Context, sessionID uuid.UUID) (*AnalysisRecord, error)
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

// mapError translates driver errors into the package's sentinel errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}

func (r *postgresRepo) CreateSubject(ctx context.Context, s *Subject) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	var age sql.NullInt64
	if s.Age != nil {
		age = sql.NullInt64{Int64: int64(*s.Age), Valid: true}
	}

	query := `INSERT INTO subjects (id, name, email, age, gender, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Email, age, s.Gender, s.CreatedAt)
	return mapError(err)
}

func (r *postgresRepo) GetSubject(ctx context.Context, id uuid.UUID) (*Subject, error) {
	query := `SELECT id, name, email, age, gender, created_at FROM subjects WHERE id = $1`

	var s Subject
	var age sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Email, &age, &s.Gender, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("subject %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		s.Age = &v
	}
	return &s, nil
}

func (r *postgresRepo) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	// sessions and everything under them cascade
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res, "subject", id)
}

func (r *postgresRepo) CreateSession(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = s.CreatedAt

	query := `INSERT INTO sessions (id, subject_id, state, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.SubjectID, s.State, s.CreatedAt, s.UpdatedAt)
	return mapError(err)
}

func (r *postgresRepo) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `SELECT id, subject_id, state, created_at, updated_at FROM sessions WHERE id = $1`

	var s Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.SubjectID, &s.State, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) UpdateSessionState(ctx context.Context, id uuid.UUID, state State) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET state = $2, updated_at = $3 WHERE id = $1`, id, state, time.Now())
	if err != nil {
		return err
	}
	return expectRow(res, "session", id)
}

func (r *postgresRepo) DeleteSession(ctx context.Context, id uuid.UUID) error {
	// answers and analyses go with the session via ON DELETE CASCADE
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res, "session", id)
}

func expectRow(res sql.Result, kind string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func (r *postgresRepo) AppendAnswer(ctx context.Context, a *AnswerRecord) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO answers (id, session_id, question_id, response_value, response_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.SessionID, int(a.QuestionID), a.Value, a.Elaboration, a.CreatedAt)
	return mapError(err)
}

func (r *postgresRepo) ListAnswers(ctx context.Context, sessionID uuid.UUID) ([]AnswerRecord, error) {
	query := `
		SELECT id, session_id, question_id, response_value, response_text, created_at
		FROM answers WHERE session_id = $1
		ORDER BY seq
	`
	return r.queryAnswers(ctx, query, sessionID)
}

func (r *postgresRepo) LatestAnswers(ctx context.Context, sessionID uuid.UUID) (map[assessment.QuestionID]AnswerRecord, error) {
	query := `
		SELECT DISTINCT ON (question_id) id, session_id, question_id, response_value, response_text, created_at
		FROM answers WHERE session_id = $1
		ORDER BY question_id, seq DESC
	`
	records, err := r.queryAnswers(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	latest := make(map[assessment.QuestionID]AnswerRecord, len(records))
	for _, a := range records {
		latest[a.QuestionID] = a
	}
	return latest, nil
}

func (r *postgresRepo) queryAnswers(ctx context.Context, query string, sessionID uuid.UUID) ([]AnswerRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var a AnswerRecord
		var qid int
		var text sql.NullString
		if err := rows.Scan(&a.ID, &a.SessionID, &qid, &a.Value, &text, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.QuestionID = assessment.QuestionID(qid)
		a.Elaboration = text.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *postgresRepo) SaveAnalysis(ctx context.Context, a *AnalysisRecord) error {
	analysisJSON, err := json.Marshal(a.Analysis)
	if err != nil {
		return err
	}
	cliniciansJSON, err := json.Marshal(a.Clinicians)
	if err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO analyses (id, session_id, analysis, clinicians, overall_score, risk_level, total_responses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.SessionID, analysisJSON, cliniciansJSON,
		a.Analysis.OverallScore, string(a.Analysis.RiskLevel), a.TotalResponses, a.CreatedAt)
	return mapError(err)
}

// Insertion order decides "latest"; created_at can tie.
const latestAnalysisQuery = `
	SELECT id, session_id, analysis, clinicians, total_responses, created_at
	FROM analyses WHERE session_id = $1
	ORDER BY seq DESC LIMIT 1
`

func (r *postgresRepo) LatestAnalysis(ctx context.Context, sessionID uuid.UUID) (*AnalysisRecord, error) {
	var a AnalysisRecord
	var analysisJSON, cliniciansJSON []byte
	err := r.db.QueryRowContext(ctx, latestAnalysisQuery, sessionID).Scan(
		&a.ID, &a.SessionID, &analysisJSON, &cliniciansJSON, &a.TotalResponses, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("analysis for session %s: %w", sessionID, ErrNotFound)
		}
		return nil, err
	}

	if err := json.Unmarshal(analysisJSON, &a.Analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	if err := json.Unmarshal(cliniciansJSON, &a.Clinicians); err != nil {
		return nil, fmt.Errorf("failed to unmarshal clinicians: %w", err)
	}
	return &a, nil
}
