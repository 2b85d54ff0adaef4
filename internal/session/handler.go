package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wellbeing-assessment/internal/assessment"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type StartSessionRequest struct {
	SubjectID string `json:"subject_id"`
}

type SubmitAnswerRequest struct {
	QuestionID    int    `json:"question_id"`
	ResponseValue string `json:"response_value"`
	ResponseText  string `json:"response_text"`
}

type analysisResponse struct {
	SessionID      uuid.UUID   `json:"session_id"`
	Analysis       interface{} `json:"analysis"`
	Clinicians     interface{} `json:"clinicians"`
	TotalResponses int         `json:"total_responses"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoAnswers):
		status = http.StatusNotFound
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrUnknownQuestion), errors.Is(err, ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, ErrReportsDisabled):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func sessionIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: session id", ErrInvalidInput)
	}
	return id, nil
}

func (h *Handler) RegisterSubject(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	subject, sess, err := h.svc.RegisterSubject(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"subject_id": subject.ID.String(),
		"session_id": sess.ID.String(),
		"message":    "Subject registered and session started successfully",
	})
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		http.Error(w, "Invalid subject ID", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.StartSession(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.DeleteSession(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	questions, err := h.svc.ApplicableQuestions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]assessment.Question{"questions": questions})
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.RecordAnswer(r.Context(), id, assessment.QuestionID(req.QuestionID), req.ResponseValue, req.ResponseText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	answers, err := h.svc.Answers(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]AnswerRecord{"responses": answers})
}

func toAnalysisResponse(rec *AnalysisRecord) analysisResponse {
	return analysisResponse{
		SessionID:      rec.SessionID,
		Analysis:       rec.Analysis,
		Clinicians:     rec.Clinicians,
		TotalResponses: rec.TotalResponses,
	}
}

func (h *Handler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.svc.RunAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisResponse(rec))
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.svc.LatestAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisResponse(rec))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pdf, err := h.svc.RenderReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.pdf", id))
	w.Write(pdf)
}

func (h *Handler) ListClinicians(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"clinicians": h.svc.Clinicians()})
}

func (h *Handler) ListConditionCodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"disease_codes": h.svc.ConditionCodes()})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/subjects", h.RegisterSubject)
	r.Post("/sessions", h.StartSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Get("/questions", h.GetQuestions)
		r.Post("/answers", h.SubmitAnswer)
		r.Get("/answers", h.ListAnswers)
		r.Post("/analysis", h.RunAnalysis)
		r.Get("/analysis", h.GetAnalysis)
		r.Get("/report", h.GetReport)
	})
	r.Get("/clinicians", h.ListClinicians)
	r.Get("/condition-codes", h.ListConditionCodes)
}
