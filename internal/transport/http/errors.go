package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"soul-quiz-service/internal/domain"
)

type errorPayload struct {
	Message string `json:"message"`
}

// statusFor maps a use-case error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrPosterUnavailable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuizUnavailable),
		errors.Is(err, domain.ErrInvalidPhase):
		return http.StatusConflict
	case errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrOptionNotFound),
		errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}
