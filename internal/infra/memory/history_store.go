package memory

import (
	"context"
	"sync"

	"soul-quiz-service/internal/domain"
)

// HistoryStore keeps the history list in process memory.
type HistoryStore struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

func (s *HistoryStore) Load(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return nil, nil
	}
	return append([]domain.HistoryEntry(nil), s.entries...), nil
}

func (s *HistoryStore) Save(_ context.Context, entries []domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]domain.HistoryEntry(nil), entries...)
	return nil
}

func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
