package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session does not exist or has expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizUnavailable indicates a quiz with nothing to administer yet.
	ErrQuizUnavailable = errors.New("quiz not yet available")
	// ErrQuestionNotFound indicates a submitted question ID is invalid or not the current one.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted value is not offered by the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrInvalidPhase is returned when an action does not fit the session's phase.
	ErrInvalidPhase = errors.New("action not allowed in current phase")
	// ErrPosterUnavailable is returned for results whose layout has no poster.
	ErrPosterUnavailable = errors.New("poster not available for this result")
	// ErrEmptyText is returned when the reframe tool receives blank input.
	ErrEmptyText = errors.New("text is required")
)
