package session

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wellbeing-assessment/internal/analysis"
	"wellbeing-assessment/internal/assessment"
	"wellbeing-assessment/internal/matching"
)

// ReportService renders and delivers analysis reports.
type ReportService interface {
	Render(ctx context.Context, subject Subject, rec AnalysisRecord) ([]byte, error)
	SendClinicianReport(ctx context.Context, subject Subject, rec AnalysisRecord) error
}

type RegisterInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    *int   `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

type Service interface {
	RegisterSubject(ctx context.Context, in RegisterInput) (*Subject, *Session, error)
	StartSession(ctx context.Context, subjectID uuid.UUID) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	ApplicableQuestions(ctx context.Context, sessionID uuid.UUID) ([]assessment.Question, error)
	RecordAnswer(ctx context.Context, sessionID uuid.UUID, questionID assessment.QuestionID, value, elaboration string) (*AnswerRecord, error)
	Answers(ctx context.Context, sessionID uuid.UUID) ([]AnswerRecord, error)

	RunAnalysis(ctx context.Context, sessionID uuid.UUID) (*AnalysisRecord, error)
	LatestAnalysis(ctx context.Context, sessionID uuid.UUID) (*AnalysisRecord, error)
	RenderReport(ctx context.Context, sessionID uuid.UUID) ([]byte, error)

	Clinicians() []matching.Clinician
	ConditionCodes() []assessment.ConditionCode

	// Close waits for in-flight report deliveries until ctx is done.
	Close(ctx context.Context) error
}

type service struct {
	repo      Repository
	catalog   *assessment.Catalog
	roster    []matching.Clinician
	analyzer  analysis.Analyzer
	reportSvc ReportService
	locks     *keyedMutex
	logger    zerolog.Logger

	deliveries sync.WaitGroup
}

// NewService wires the orchestration. reportSvc may be nil, in which case
// reports are neither rendered nor delivered.
func NewService(
	repo Repository,
	catalog *assessment.Catalog,
	roster []matching.Clinician,
	analyzer analysis.Analyzer,
	reportSvc ReportService,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:      repo,
		catalog:   catalog,
		roster:    roster,
		analyzer:  analyzer,
		reportSvc: reportSvc,
		locks:     newKeyedMutex(),
		logger:    logger.With().Str("component", "session").Logger(),
	}
}

func (s *service) RegisterSubject(ctx context.Context, in RegisterInput) (*Subject, *Session, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, fmt.Errorf("%w: email %q", ErrInvalidInput, in.Email)
	}
	if in.Age != nil && *in.Age < 0 {
		return nil, nil, fmt.Errorf("%w: age must not be negative", ErrInvalidInput)
	}

	subject := &Subject{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Age:       in.Age,
		Gender:    strings.TrimSpace(in.Gender),
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, nil, fmt.Errorf("register subject: %w", err)
	}

	sess, err := s.StartSession(ctx, subject.ID)
	if err != nil {
		// release the email so the caller can retry
		if derr := s.repo.DeleteSubject(context.WithoutCancel(ctx), subject.ID); derr != nil {
			s.logger.Error().Err(derr).Str("subject_id", subject.ID.String()).Msg("failed to roll back subject")
		}
		return nil, nil, err
	}

	s.logger.Info().Str("subject_id", subject.ID.String()).Str("session_id", sess.ID.String()).Msg("subject registered")
	return subject, sess, nil
}

func (s *service) StartSession(ctx context.Context, subjectID uuid.UUID) (*Session, error) {
	sess := &Session{
		ID:        uuid.New(),
		SubjectID: subjectID,
		State:     StateOpen,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.repo.DeleteSession(ctx, id)
}

func (s *service) latestValues(ctx context.Context, sessionID uuid.UUID) (map[assessment.QuestionID]AnswerRecord, map[assessment.QuestionID]string, error) {
	latest, err := s.repo.LatestAnswers(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	values := make(map[assessment.QuestionID]string, len(latest))
	for qid, a := range latest {
		values[qid] = a.Value
	}
	return latest, values, nil
}

func (s *service) ApplicableQuestions(ctx context.Context, sessionID uuid.UUID) ([]assessment.Question, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	_, values, err := s.latestValues(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return assessment.Resolve(values, s.catalog), nil
}

// RecordAnswer appends an answer and advances the lifecycle. Writers to the
// same session are serialized so the resolver sees a consistent snapshot.
func (s *service) RecordAnswer(ctx context.Context, sessionID uuid.UUID, questionID assessment.QuestionID, value, elaboration string) (*AnswerRecord, error) {
	if _, ok := s.catalog.Get(questionID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: response value is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rec := &AnswerRecord{
		ID:          uuid.New(),
		SessionID:   sessionID,
		QuestionID:  questionID,
		Value:       value,
		Elaboration: elaboration,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.AppendAnswer(ctx, rec); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}

	_, values, err := s.latestValues(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next := StateAnswering
	if len(assessment.Unanswered(values, s.catalog)) == 0 {
		next = StateComplete
	}
	if next != sess.State {
		if err := s.repo.UpdateSessionState(ctx, sessionID, next); err != nil {
			return nil, fmt.Errorf("update session state: %w", err)
		}
		s.logger.Debug().Str("session_id", sessionID.String()).Str("state", string(next)).Msg("session state changed")
	}

	return rec, nil
}

func (s *service) Answers(ctx context.Context, sessionID uuid.UUID) ([]AnswerRecord, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListAnswers(ctx, sessionID)
}

// analyzerInput orders the latest answers by catalog position.
func (s *service) analyzerInput(latest map[assessment.QuestionID]AnswerRecord) []assessment.Answer {
	answers := make([]assessment.Answer, 0, len(latest))
	for _, q := range s.catalog.Questions() {
		a, ok := latest[q.ID]
		if !ok {
			continue
		}
		answers = append(answers, assessment.Answer{
			QuestionID:   q.ID,
			QuestionType: q.Type,
			QuestionText: q.Text,
			Value:        a.Value,
			Elaboration:  a.Elaboration,
		})
	}
	return answers
}

func (s *service) RunAnalysis(ctx context.Context, sessionID uuid.UUID) (*AnalysisRecord, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	latest, _, err := s.latestValues(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, ErrNoAnswers
	}

	answers := s.analyzerInput(latest)
	result := s.analyzer.Analyze(ctx, answers)

	rec := &AnalysisRecord{
		ID:             uuid.New(),
		SessionID:      sessionID,
		Analysis:       result,
		Clinicians:     matching.Match(result.Conditions, s.roster),
		TotalResponses: len(answers),
		CreatedAt:      time.Now(),
	}
	if err := s.repo.SaveAnalysis(ctx, rec); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	if err := s.repo.UpdateSessionState(ctx, sessionID, StateAnalyzed); err != nil {
		return nil, fmt.Errorf("update session state: %w", err)
	}

	s.logger.Info().
		Str("session_id", sessionID.String()).
		Int("overall_score", result.OverallScore).
		Str("risk_level", string(result.RiskLevel)).
		Int("clinicians", len(rec.Clinicians)).
		Msg("session analyzed")

	if s.reportSvc != nil {
		s.deliveries.Add(1)
		go func(rec AnalysisRecord) {
			defer s.deliveries.Done()
			s.deliverReport(context.WithoutCancel(ctx), rec)
		}(*rec)
	}

	return rec, nil
}

func (s *service) deliverReport(ctx context.Context, rec AnalysisRecord) {
	sess, err := s.repo.GetSession(ctx, rec.SessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", rec.SessionID.String()).Msg("report skipped: session lookup failed")
		return
	}
	subject, err := s.repo.GetSubject(ctx, sess.SubjectID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", rec.SessionID.String()).Msg("report skipped: subject lookup failed")
		return
	}
	if err := s.reportSvc.SendClinicianReport(ctx, *subject, rec); err != nil {
		s.logger.Error().Err(err).Str("session_id", rec.SessionID.String()).Msg("failed to send report")
	}
}

func (s *service) LatestAnalysis(ctx context.Context, sessionID uuid.UUID) (*AnalysisRecord, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.LatestAnalysis(ctx, sessionID)
}

func (s *service) RenderReport(ctx context.Context, sessionID uuid.UUID) ([]byte, error) {
	if s.reportSvc == nil {
		return nil, ErrReportsDisabled
	}
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.LatestAnalysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	subject, err := s.repo.GetSubject(ctx, sess.SubjectID)
	if err != nil {
		return nil, err
	}
	return s.reportSvc.Render(ctx, *subject, *rec)
}

// Clinicians returns the roster by descending rating.
func (s *service) Clinicians() []matching.Clinician {
	return matching.ByRating(s.roster)
}

func (s *service) ConditionCodes() []assessment.ConditionCode {
	return assessment.ConditionCodes()
}

func (s *service) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.deliveries.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for report deliveries: %w", ctx.Err())
	}
}
