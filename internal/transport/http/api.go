package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"soul-quiz-service/internal/app"
	"soul-quiz-service/internal/domain"
)

// FlipFailureMessage is shown when the reframe provider fails.
const FlipFailureMessage = "AI 思考过载，请稍后再试"

// API serves the REST surface of the quiz, reframe and history use cases.
type API struct {
	service  *app.QuizService
	reframer *app.Reframer
	history  *app.HistoryLog
	logger   *zap.Logger
}

func NewAPI(service *app.QuizService, reframer *app.Reframer, history *app.HistoryLog, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{service: service, reframer: reframer, history: history, logger: logger}
}

// Register mounts every route on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/quizzes", a.listQuizzes)
	mux.HandleFunc("GET /api/quizzes/{id}", a.getQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/sessions", a.beginSession)

	mux.HandleFunc("GET /api/sessions/{id}", a.getSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", a.abandonSession)
	mux.HandleFunc("POST /api/sessions/{id}/start", a.startSession)
	mux.HandleFunc("POST /api/sessions/{id}/answers", a.answer)
	mux.HandleFunc("POST /api/sessions/{id}/unlock", a.unlock)
	mux.HandleFunc("GET /api/sessions/{id}/result", a.result)
	mux.HandleFunc("GET /api/sessions/{id}/poster", a.poster)

	mux.HandleFunc("POST /api/flip", a.flip)
	mux.HandleFunc("GET /api/history", a.listHistory)
	mux.HandleFunc("DELETE /api/history", a.clearHistory)
}

func (a *API) listQuizzes(w http.ResponseWriter, r *http.Request) {
	listings, err := a.service.Lobby(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (a *API) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := a.service.Quiz(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	quiz.AccessCode = ""
	writeJSON(w, http.StatusOK, quiz)
}

func (a *API) beginSession(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Begin(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) abandonSession(w http.ResponseWriter, r *http.Request) {
	a.service.Abandon(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) startSession(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type answerRequest struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type answerResponse struct {
	Completed bool            `json:"completed"`
	DelayMs   int64           `json:"delayMs"`
	Session   app.SessionView `json:"session"`
}

func (a *API) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid answer payload"})
		return
	}
	outcome, err := a.service.Answer(r.Context(), r.PathValue("id"), req.QuestionID, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{
		Completed: outcome.Completed,
		DelayMs:   outcome.Delay.Milliseconds(),
		Session:   outcome.View,
	})
}

type unlockRequest struct {
	Code string `json:"code"`
}

type unlockResponse struct {
	Unlocked  bool        `json:"unlocked"`
	ClearInMs int64       `json:"clearInMs,omitempty"`
	Reveal    *app.Reveal `json:"reveal,omitempty"`
}

func (a *API) unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid unlock payload"})
		return
	}
	resp, err := a.service.Unlock(r.Context(), r.PathValue("id"), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unlockResponse{
		Unlocked:  resp.Unlocked,
		ClearInMs: resp.ClearIn.Milliseconds(),
		Reveal:    resp.Reveal,
	})
}

func (a *API) result(w http.ResponseWriter, r *http.Request) {
	reveal, err := a.service.Reveal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reveal)
}

func (a *API) poster(w http.ResponseWriter, r *http.Request) {
	poster, err := a.service.Poster(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poster)
}

type flipRequest struct {
	Text string `json:"text"`
}

func (a *API) flip(w http.ResponseWriter, r *http.Request) {
	var req flipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Text is required"})
		return
	}
	flipped, err := a.reframer.Reframe(r.Context(), req.Text)
	if errors.Is(err, domain.ErrEmptyText) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Text is required"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   FlipFailureMessage,
			"details": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"flipped": flipped})
}

func (a *API) listHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := a.history.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *API) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := a.history.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
