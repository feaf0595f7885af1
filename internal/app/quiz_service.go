package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"soul-quiz-service/internal/domain"
	"soul-quiz-service/internal/present"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// Reveal is a revealed result together with its rendered view.
type Reveal struct {
	Session SessionView   `json:"session"`
	Quiz    domain.Quiz   `json:"-"`
	Result  domain.Result `json:"result"`
	View    present.View  `json:"view"`
}

// UnlockResponse is the outcome of one gate attempt.
type UnlockResponse struct {
	Unlocked bool          `json:"unlocked"`
	ClearIn  time.Duration `json:"-"`
	Reveal   *Reveal       `json:"reveal,omitempty"`
}

// QuizService contains the core quiz use cases: catalog, flow, tally, gate,
// presentation and history.
type QuizService struct {
	sessions   SessionRepository
	quizzes    QuizRepository
	history    *HistoryLog
	presenters *present.Registry
	pacing     Pacing
	logger     *zap.Logger
	newID      func() string
}

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

// WithPacing overrides the delays between flow events.
func WithPacing(p Pacing) ServiceOption {
	return func(s *QuizService) { s.pacing = p }
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *QuizService) { s.logger = logger }
}

// WithPresenters replaces the result presenter registry.
func WithPresenters(r *present.Registry) ServiceOption {
	return func(s *QuizService) { s.presenters = r }
}

// WithSessionIDs overrides session id generation.
func WithSessionIDs(newID func() string) ServiceOption {
	return func(s *QuizService) { s.newID = newID }
}

// NewQuizService wires the quiz use cases. history may be nil.
func NewQuizService(store SessionRepository, quizzes QuizRepository, history *HistoryLog, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		sessions:   store,
		quizzes:    quizzes,
		history:    history,
		presenters: present.NewRegistry(),
		pacing:     DefaultPacing(),
		logger:     zap.NewNop(),
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lobby lists every catalog entry in order.
func (s *QuizService) Lobby(ctx context.Context) ([]domain.Listing, error) {
	quizzes, err := s.quizzes.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	listings := make([]domain.Listing, 0, len(quizzes))
	for _, q := range quizzes {
		listings = append(listings, q.Listing())
	}
	return listings, nil
}

// Quiz returns one quiz definition.
func (s *QuizService) Quiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// Begin opens a session in the intro phase. Quizzes without questions are
// refused with domain.ErrQuizUnavailable before any session exists.
func (s *QuizService) Begin(ctx context.Context, quizID string) (SessionView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return SessionView{}, err
	}
	if !quiz.Available() {
		return SessionView{}, domain.ErrQuizUnavailable
	}

	session := NewSession(s.newID(), quiz, s.pacing)
	s.sessions.Put(session)
	s.logger.Debug("session opened", zap.String("session", session.ID()), zap.String("quiz", quizID))
	return session.Snapshot(), nil
}

// Start moves a session from intro to the first question.
func (s *QuizService) Start(_ context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	return session.Start()
}

// Answer records the chosen value for the current question.
func (s *QuizService) Answer(_ context.Context, sessionID, questionID, value string) (AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return AnswerOutcome{}, domain.ErrSessionNotFound
	}
	outcome, err := session.Answer(questionID, value)
	if err != nil {
		return AnswerOutcome{}, err
	}
	s.logger.Info("select_option",
		zap.String("session", sessionID),
		zap.String("quiz", session.Quiz().ID),
		zap.String("question", questionID),
		zap.String("value", value))
	return outcome, nil
}

// Unlock submits a gate code. On success the quiz result is appended to the
// history log and the rendered result is returned.
func (s *QuizService) Unlock(ctx context.Context, sessionID, code string) (UnlockResponse, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return UnlockResponse{}, domain.ErrSessionNotFound
	}
	outcome, err := session.Unlock(code)
	if err != nil {
		return UnlockResponse{}, err
	}
	if !outcome.Unlocked {
		return UnlockResponse{ClearIn: outcome.ErrorFor}, nil
	}

	quiz := session.Quiz()
	s.logger.Info("unlock_gate",
		zap.String("session", sessionID),
		zap.String("quiz", quiz.ID),
		zap.String("result", outcome.Result.ID))

	if s.history != nil {
		if _, err := s.history.Append(ctx, domain.HistoryQuizResult, quiz.Title, domain.HistoryData{
			QuizID:      quiz.ID,
			ResultID:    outcome.Result.ID,
			ResultTitle: outcome.Result.Title,
		}); err != nil {
			// The reveal does not depend on the history write.
			s.logger.Error("record quiz history", zap.String("session", sessionID), zap.Error(err))
		}
	}

	reveal := s.render(session, outcome.Result)
	return UnlockResponse{Unlocked: true, Reveal: &reveal}, nil
}

// Reveal renders the result of a revealed session again.
func (s *QuizService) Reveal(_ context.Context, sessionID string) (Reveal, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Reveal{}, domain.ErrSessionNotFound
	}
	result, err := session.Result()
	if err != nil {
		return Reveal{}, err
	}
	reveal := s.render(session, result)
	s.logger.Info("view_result", zap.String("session", sessionID), zap.String("result", result.ID))
	return reveal, nil
}

// Poster returns the poster card for a revealed result. Layouts without a
// poster fail with domain.ErrPosterUnavailable.
func (s *QuizService) Poster(ctx context.Context, sessionID string) (present.Poster, error) {
	reveal, err := s.Reveal(ctx, sessionID)
	if err != nil {
		return present.Poster{}, err
	}
	if reveal.View.Poster == nil {
		return present.Poster{}, domain.ErrPosterUnavailable
	}
	s.logger.Info("generate_poster", zap.String("session", sessionID), zap.String("quiz", reveal.Quiz.ID))
	return *reveal.View.Poster, nil
}

// Snapshot returns the current state of a session.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return SessionView{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Abandon drops a session; navigating away loses it.
func (s *QuizService) Abandon(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *QuizService) render(session *Session, result domain.Result) Reveal {
	quiz := session.Quiz()
	return Reveal{
		Session: session.Snapshot(),
		Quiz:    quiz,
		Result:  result,
		View:    s.presenters.Render(quiz, result),
	}
}
