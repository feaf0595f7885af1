package app

import (
	"sync"
	"time"

	"soul-quiz-service/internal/domain"
)

// Pacing holds the cosmetic delays between flow events. They never gate
// correctness: the session state changes immediately.
type Pacing struct {
	Advance time.Duration
	Gate    time.Duration
}

// DefaultPacing matches the delays the quiz pages have always used.
func DefaultPacing() Pacing {
	return Pacing{Advance: 200 * time.Millisecond, Gate: 500 * time.Millisecond}
}

// SessionView is a read-only snapshot of a session.
type SessionView struct {
	ID        string           `json:"id"`
	QuizID    string           `json:"quizId"`
	Phase     domain.Phase     `json:"phase"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Question  *domain.Question `json:"question,omitempty"`
	GateError bool             `json:"gateError,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// AnswerOutcome describes what happened after an answer was recorded.
type AnswerOutcome struct {
	Completed bool          `json:"completed"`
	Delay     time.Duration `json:"-"`
	View      SessionView   `json:"session"`
}

// UnlockOutcome is the gate response for one submitted code.
type UnlockOutcome struct {
	Unlocked bool          `json:"unlocked"`
	Result   domain.Result `json:"-"`
	ErrorFor time.Duration `json:"-"`
}

// Session drives one visitor through a quiz: intro, questioning, gated,
// revealed. Transitions only move forward.
type Session struct {
	id        string
	quiz      domain.Quiz
	gate      Gate
	pacing    Pacing
	createdAt time.Time
	now       func() time.Time

	mu             sync.Mutex
	phase          domain.Phase
	current        int
	answers        domain.AnswerSet
	result         *domain.Result
	gateErrorUntil time.Time
}

// NewSession creates a session in the intro phase.
func NewSession(id string, quiz domain.Quiz, pacing Pacing) *Session {
	return NewSessionWithClock(id, quiz, pacing, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, quiz domain.Quiz, pacing Pacing, now func() time.Time) *Session {
	return &Session{
		id:        id,
		quiz:      quiz,
		gate:      NewGate(quiz.AccessCode),
		pacing:    pacing,
		createdAt: now(),
		now:       now,
		phase:     domain.PhaseIntro,
		answers:   make(domain.AnswerSet, len(quiz.Questions)),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// QuizID returns the id of the quiz being administered.
func (s *Session) QuizID() string { return s.quiz.ID }

// Quiz returns the quiz being administered.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Start leaves the intro. Quizzes without questions must be filtered out by
// the caller; Start refuses them all the same.
func (s *Session) Start() (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIntro {
		return SessionView{}, domain.ErrInvalidPhase
	}
	if !s.quiz.Available() {
		return SessionView{}, domain.ErrQuizUnavailable
	}
	s.phase = domain.PhaseQuestioning
	s.current = 0
	return s.viewLocked(), nil
}

// Answer records the value for the current question. After the last question
// the result is selected and the session moves to gated.
func (s *Session) Answer(questionID, value string) (AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseQuestioning {
		return AnswerOutcome{}, domain.ErrInvalidPhase
	}
	question := s.quiz.Questions[s.current]
	if question.ID != questionID {
		return AnswerOutcome{}, domain.ErrQuestionNotFound
	}
	if _, ok := findOption(question, value); !ok {
		return AnswerOutcome{}, domain.ErrOptionNotFound
	}

	s.answers[question.ID] = value

	if s.current < len(s.quiz.Questions)-1 {
		s.current++
		return AnswerOutcome{Delay: s.pacing.Advance, View: s.viewLocked()}, nil
	}

	result := SelectResult(s.quiz, s.answers)
	s.result = &result
	s.phase = domain.PhaseGated
	return AnswerOutcome{Completed: true, Delay: s.pacing.Gate, View: s.viewLocked()}, nil
}

// Unlock submits a gate code. A mismatch flags a transient error and leaves
// the session gated; any number of retries is allowed.
func (s *Session) Unlock(code string) (UnlockOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseGated {
		return UnlockOutcome{}, domain.ErrInvalidPhase
	}
	if !s.gate.Check(code) {
		s.gateErrorUntil = s.now().Add(GateErrorDuration)
		return UnlockOutcome{ErrorFor: GateErrorDuration}, nil
	}
	s.gateErrorUntil = time.Time{}
	s.phase = domain.PhaseRevealed
	return UnlockOutcome{Unlocked: true, Result: *s.result}, nil
}

// Result returns the selected result once revealed.
func (s *Session) Result() (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseRevealed {
		return domain.Result{}, domain.ErrInvalidPhase
	}
	return *s.result, nil
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() domain.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(domain.AnswerSet, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() SessionView {
	view := SessionView{
		ID:        s.id,
		QuizID:    s.quiz.ID,
		Phase:     s.phase,
		Index:     s.current,
		Total:     len(s.quiz.Questions),
		GateError: s.phase == domain.PhaseGated && s.now().Before(s.gateErrorUntil),
		CreatedAt: s.createdAt,
	}
	if s.phase == domain.PhaseQuestioning {
		q := s.quiz.Questions[s.current]
		view.Question = &q
	}
	return view
}
