package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"soul-quiz-service/internal/domain"
)

// HistoryKey is the single key that holds the serialized history list.
const HistoryKey = "soul_web_history"

// HistoryStore keeps the bounded history list as one JSON value in Redis.
type HistoryStore struct {
	client *redis.Client
	key    string
}

func NewHistoryStore(client *redis.Client) *HistoryStore {
	return &HistoryStore{client: client, key: HistoryKey}
}

func (s *HistoryStore) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func (s *HistoryStore) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	// No expiry: the list only shrinks through the size cap or Clear.
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
