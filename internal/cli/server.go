package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"soul-quiz-service/internal/app"
	"soul-quiz-service/internal/config"
	"soul-quiz-service/internal/infra/memory"
	"soul-quiz-service/internal/infra/postgres"
	infraredis "soul-quiz-service/internal/infra/redis"
	"soul-quiz-service/internal/llm"
	transport "soul-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts.cfg, opts.port, opts.logger)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, portFlag string, logger *zap.Logger) error {
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = newRedisClient(cfg)
		defer redisClient.Close()
	}

	var loader memory.QuizLoader
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = postgres.NewQuizLoader(pool)
	} else {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		for _, issue := range cat.Validate() {
			logger.Warn("catalog issue", zap.String("quiz", issue.QuizID), zap.String("detail", issue.Detail))
		}
		loader = cat
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	// redis.ttl is the older name for the session lifetime.
	sessionTTL := config.TTLDuration(cfg.Session.TTL, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))

	var (
		quizRepo     app.QuizRepository
		store        app.SessionRepository
		historyStore app.HistoryStore
	)
	if redisClient != nil {
		quizRepo = infraredis.NewQuizRepository(redisClient, loader, quizTTL)
		store = infraredis.NewSessionStore(redisClient, sessionTTL)
		historyStore = infraredis.NewHistoryStore(redisClient)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
		store = memory.NewSessionStore(sessionTTL)
		historyStore = memory.NewHistoryStore()
	}

	var mirror app.HistoryMirror
	if cfg.Postgres.URL != "" {
		db := postgres.OpenBun(cfg.Postgres.URL)
		defer db.Close()
		mirror = postgres.NewHistoryMirror(db)
	}
	history := app.NewHistoryLog(historyStore, mirror, logger,
		app.WithMirrorTimeout(config.TTLDuration(cfg.History.MirrorTimeout, 10*time.Second)))
	defer history.Close()

	llmCfg := cfg.LLM.WithDefaults().WithEnv()
	provider, err := llm.NewProvider(ctx, llmCfg)
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		logger.Warn("no LLM credential, reframe runs in demo mode", zap.String("provider", llmCfg.Provider))
		provider = nil
	case err != nil:
		return err
	}
	reframer := app.NewReframer(provider, app.ReframeOptions{
		Temperature: llmCfg.Temperature,
		MaxTokens:   llmCfg.MaxTokens,
		Timeout:     config.TTLDuration(llmCfg.Timeout, 30*time.Second),
	}, history, logger)

	defaults := app.DefaultPacing()
	pacing := app.Pacing{
		Advance: config.TTLDuration(cfg.Flow.AdvanceDelay, defaults.Advance),
		Gate:    config.TTLDuration(cfg.Flow.GateDelay, defaults.Gate),
	}
	service := app.NewQuizService(store, quizRepo, history,
		app.WithPacing(pacing),
		app.WithLogger(logger))

	mux := http.NewServeMux()
	transport.NewAPI(service, reframer, history, logger).Register(mux)
	mux.HandleFunc("GET /ws", transport.NewWSHandler(service, logger).ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// Flip requests wait on the model; the write timeout leaves room for it.
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
