package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"soul-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Session state stays in a local map; it is private to one visitor and
//     holds the in-progress answers, which are never persisted.
//   - Redis carries a liveness key per session whose TTL is refreshed on
//     every access. Once it expires the local session is dropped too, on
//     the next Get for it or the next Put of any session.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

// Put stores the session and drops local sessions whose liveness key has
// expired, so sessions nobody asks for again do not pile up.
func (s *SessionStore) Put(session *app.Session) {
	ctx := context.Background()
	s.sweep(ctx)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	// best-effort liveness marker
	_ = s.client.Set(ctx, s.key(session.ID()), session.QuizID(), s.ttl).Err()
}

// Len returns the number of locally held sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweep checks every local session's liveness key in one pipeline. When Redis
// is unreachable nothing is dropped.
func (s *SessionStore) sweep(ctx context.Context) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	if len(ids) == 0 {
		return
	}

	cmds := make([]*redis.IntCmd, len(ids))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.Exists(ctx, s.key(id))
		}
		return nil
	})
	if err != nil {
		return
	}

	s.mu.Lock()
	for i, id := range ids {
		if cmds[i].Val() == 0 {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	alive, err := s.touch(context.Background(), sessionID)
	if err != nil {
		// Redis unreachable: the local copy stays authoritative.
		return session, true
	}
	if !alive {
		s.Delete(sessionID)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// touch refreshes the liveness key and reports whether it still existed.
func (s *SessionStore) touch(ctx context.Context, sessionID string) (bool, error) {
	if s.ttl <= 0 {
		n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
		return n == 1, err
	}
	return s.client.Expire(ctx, s.key(sessionID), s.ttl).Result()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
