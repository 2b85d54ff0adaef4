package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wellbeing-assessment/internal/assessment"
)

// memoryRepo keeps everything in process. It backs tests and DB-less runs.
type memoryRepo struct {
	mu       sync.RWMutex
	subjects map[uuid.UUID]Subject
	emails   map[string]uuid.UUID
	sessions map[uuid.UUID]Session
	answers  map[uuid.UUID][]AnswerRecord
	analyses map[uuid.UUID][]AnalysisRecord
}

func NewMemoryRepository() Repository {
	return &memoryRepo{
		subjects: make(map[uuid.UUID]Subject),
		emails:   make(map[string]uuid.UUID),
		sessions: make(map[uuid.UUID]Session),
		answers:  make(map[uuid.UUID][]AnswerRecord),
		analyses: make(map[uuid.UUID][]AnalysisRecord),
	}
}

func (r *memoryRepo) CreateSubject(_ context.Context, s *Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(s.Email)
	if _, taken := r.emails[email]; taken {
		return fmt.Errorf("%w: subject email %q", ErrConflict, s.Email)
	}
	if _, taken := r.subjects[s.ID]; taken {
		return fmt.Errorf("%w: subject %s", ErrConflict, s.ID)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.subjects[s.ID] = *s
	r.emails[email] = s.ID
	return nil
}

func (r *memoryRepo) GetSubject(_ context.Context, id uuid.UUID) (*Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.subjects[id]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}
	return &s, nil
}

func (r *memoryRepo) DeleteSubject(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subjects[id]
	if !ok {
		return fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}
	for sid, sess := range r.sessions {
		if sess.SubjectID == id {
			delete(r.sessions, sid)
			delete(r.answers, sid)
			delete(r.analyses, sid)
		}
	}
	delete(r.emails, strings.ToLower(s.Email))
	delete(r.subjects, id)
	return nil
}

func (r *memoryRepo) CreateSession(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subjects[s.SubjectID]; !ok {
		return fmt.Errorf("subject %s: %w", s.SubjectID, ErrNotFound)
	}
	if _, taken := r.sessions[s.ID]; taken {
		return fmt.Errorf("%w: session %s", ErrConflict, s.ID)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = s.CreatedAt
	r.sessions[s.ID] = *s
	return nil
}

func (r *memoryRepo) GetSession(_ context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return &s, nil
}

func (r *memoryRepo) UpdateSessionState(_ context.Context, id uuid.UUID, state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	s.State = state
	s.UpdatedAt = time.Now()
	r.sessions[id] = s
	return nil
}

func (r *memoryRepo) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	delete(r.sessions, id)
	delete(r.answers, id)
	delete(r.analyses, id)
	return nil
}

func (r *memoryRepo) AppendAnswer(_ context.Context, a *AnswerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[a.SessionID]; !ok {
		return fmt.Errorf("session %s: %w", a.SessionID, ErrNotFound)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.answers[a.SessionID] = append(r.answers[a.SessionID], *a)
	return nil
}

func (r *memoryRepo) ListAnswers(_ context.Context, sessionID uuid.UUID) ([]AnswerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.answers[sessionID]
	out := make([]AnswerRecord, len(records))
	copy(out, records)
	return out, nil
}

func (r *memoryRepo) LatestAnswers(_ context.Context, sessionID uuid.UUID) (map[assessment.QuestionID]AnswerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// insertion order is submission order, so later records win
	latest := make(map[assessment.QuestionID]AnswerRecord)
	for _, a := range r.answers[sessionID] {
		latest[a.QuestionID] = a
	}
	return latest, nil
}

func (r *memoryRepo) SaveAnalysis(_ context.Context, a *AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[a.SessionID]; !ok {
		return fmt.Errorf("session %s: %w", a.SessionID, ErrNotFound)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.analyses[a.SessionID] = append(r.analyses[a.SessionID], *a)
	return nil
}

func (r *memoryRepo) LatestAnalysis(_ context.Context, sessionID uuid.UUID) (*AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.analyses[sessionID]
	if len(history) == 0 {
		return nil, fmt.Errorf("analysis for session %s: %w", sessionID, ErrNotFound)
	}
	a := history[len(history)-1]
	return &a, nil
}
