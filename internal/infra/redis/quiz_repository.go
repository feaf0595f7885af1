package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"soul-quiz-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (embedded catalog or Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// QuizRepository caches quiz definitions in Redis as JSON and falls back to a loader on cache miss.
// Quizzes are stored as:  SET quiz:item:{quizID}  {json}
// The lobby is stored as: SET quiz:list          {json array}
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var quiz domain.Quiz
	if r.readCache(ctx, r.quizKey(quizID), &quiz) {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(r.quizKey(quizID), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		var quiz domain.Quiz
		if r.readCache(ctx, r.quizKey(quizID), &quiz) {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.writeCache(ctx, r.quizKey(quizID), quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	if r.readCache(ctx, r.lobbyKey(), &quizzes) {
		return quizzes, nil
	}

	result, err, _ := r.sf.Do(r.lobbyKey(), func() (interface{}, error) {
		var quizzes []domain.Quiz
		if r.readCache(ctx, r.lobbyKey(), &quizzes) {
			return quizzes, nil
		}

		quizzes, err := r.loader.ListQuizzes(ctx)
		if err != nil {
			return nil, err
		}
		r.writeCache(ctx, r.lobbyKey(), quizzes)
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Quiz(nil), result.([]domain.Quiz)...), nil
}

// readCache reports a hit only when the key exists and decodes cleanly; a
// corrupt entry is treated as a miss and overwritten on reload.
func (r *QuizRepository) readCache(ctx context.Context, key string, dst any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// writeCache is best-effort: a Redis outage only costs a reload next time.
func (r *QuizRepository) writeCache(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
}

// Invalidate drops the cached quiz and lobby, e.g. after a reseed.
func (r *QuizRepository) Invalidate(ctx context.Context, quizIDs ...string) error {
	keys := []string{r.lobbyKey()}
	for _, id := range quizIDs {
		keys = append(keys, r.quizKey(id))
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *QuizRepository) quizKey(quizID string) string {
	return "quiz:item:" + quizID
}

func (r *QuizRepository) lobbyKey() string {
	return "quiz:list"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
