package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"soul-quiz-service/internal/catalog"
	"soul-quiz-service/internal/config"
	"soul-quiz-service/internal/infra/postgres"
	infraredis "soul-quiz-service/internal/infra/redis"
)

// NewSeedCmd writes the catalog into Postgres.
func NewSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the quiz catalog to Postgres and drop cached copies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts.cfg, opts.logger)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	for _, issue := range cat.Validate() {
		logger.Warn("catalog issue", zap.String("quiz", issue.QuizID), zap.String("detail", issue.Detail))
	}

	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}

	db := postgres.OpenBun(cfg.Postgres.URL)
	defer db.Close()

	quizzes := cat.List()
	if err := postgres.NewQuizWriter(db).Upsert(ctx, quizzes); err != nil {
		return err
	}
	logger.Info("catalog seeded", zap.Int("quizzes", len(quizzes)))

	if cfg.Redis.Addr == "" {
		return nil
	}
	client := newRedisClient(cfg)
	defer client.Close()

	ids := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	// Cached quizzes would otherwise outlive the seed until their TTL.
	if err := infraredis.NewQuizRepository(client, nil, 0).Invalidate(ctx, ids...); err != nil {
		logger.Warn("invalidate quiz cache", zap.Error(err))
	}
	return nil
}

// loadCatalog reads quiz.catalog when set, otherwise the embedded catalog.
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Quiz.Catalog == "" {
		return catalog.Default()
	}
	data, err := os.ReadFile(cfg.Quiz.Catalog)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Parse(data)
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
