package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"soul-quiz-service/internal/app"
	"soul-quiz-service/internal/catalog"
	"soul-quiz-service/internal/domain"
	pgstore "soul-quiz-service/internal/infra/postgres"
	pgmigrations "soul-quiz-service/internal/infra/postgres/migrations"
	infraredis "soul-quiz-service/internal/infra/redis"
)

func TestQuizRevealEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewQuizLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	db := pgstore.OpenBun(pgURL)
	defer db.Close()
	mirror := pgstore.NewHistoryMirror(db)

	quizRepo := infraredis.NewQuizRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	history := app.NewHistoryLog(infraredis.NewHistoryStore(redisClient), mirror, zap.NewNop())
	service := app.NewQuizService(sessionStore, quizRepo, history, app.WithPacing(app.Pacing{}))

	lobby, err := service.Lobby(ctx)
	if err != nil {
		t.Fatalf("lobby: %v", err)
	}
	if len(lobby) != 6 || lobby[0].ID != "mind-flip" || lobby[5].ID != "cat-personality" {
		t.Fatalf("lobby order not preserved: %+v", lobby)
	}

	view, err := service.Begin(ctx, "scent-personality")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if view, err = service.Start(ctx, view.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	for view.Phase == domain.PhaseQuestioning {
		outcome, err := service.Answer(ctx, view.ID, view.Question.ID, view.Question.Options[0].Value)
		if err != nil {
			t.Fatalf("answer %s: %v", view.Question.ID, err)
		}
		view = outcome.View
	}

	resp, err := service.Unlock(ctx, view.ID, "8888")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !resp.Unlocked || resp.Reveal.Result.ID != "E" {
		t.Fatalf("expected result E, got %+v", resp)
	}
	if _, ok := resp.Reveal.Result.Payload.(*domain.ScentPayload); !ok {
		t.Fatalf("payload lost through postgres and redis: %T", resp.Reveal.Result.Payload)
	}

	// Close waits for the background mirror write.
	history.Close()
	rows := mirroredRows(t, ctx, db)
	if len(rows) != 1 || rows[0].Data.ResultID != "E" || rows[0].Type != domain.HistoryQuizResult {
		t.Fatalf("expected mirrored entry, got %+v", rows)
	}

	if err := history.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	local, err := history.List(ctx)
	if err != nil || len(local) != 0 {
		t.Fatalf("expected empty local history, got %v %v", local, err)
	}
	if rows := mirroredRows(t, ctx, db); len(rows) != 1 {
		t.Fatalf("mirror should keep its rows after clear, got %d", len(rows))
	}
}

func mirroredRows(t *testing.T, ctx context.Context, db *bun.DB) []pgstore.HistoryRow {
	t.Helper()
	var rows []pgstore.HistoryRow
	if err := db.NewSelect().Model(&rows).OrderExpr("created_at DESC, id DESC").Scan(ctx); err != nil {
		t.Fatalf("select history rows: %v", err)
	}
	return rows
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	db := pgstore.OpenBun(dsn)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := pgstore.NewQuizWriter(db).Upsert(ctx, catalog.MustDefault().List()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	// A second seed must replace rows rather than fail.
	if err := pgstore.NewQuizWriter(db).Upsert(ctx, catalog.MustDefault().List()); err != nil {
		t.Fatalf("reseed catalog: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
