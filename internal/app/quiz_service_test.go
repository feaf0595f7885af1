package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"soul-quiz-service/internal/app"
	"soul-quiz-service/internal/catalog"
	"soul-quiz-service/internal/domain"
	"soul-quiz-service/internal/infra/memory"
)

func newTestService(t *testing.T) (*app.QuizService, *app.HistoryLog) {
	t.Helper()
	history := app.NewHistoryLog(memory.NewHistoryStore(), nil, nil)
	t.Cleanup(history.Close)

	quizRepo := memory.NewQuizRepository(catalog.MustDefault(), 5*time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(time.Hour), quizRepo, history, app.WithPacing(app.Pacing{}))
	return service, history
}

func TestLobbyListsCatalog(t *testing.T) {
	service, _ := newTestService(t)

	lobby, err := service.Lobby(context.Background())
	if err != nil {
		t.Fatalf("lobby: %v", err)
	}
	if len(lobby) != 6 || lobby[0].ID != "mind-flip" || lobby[0].URL != "/flip" {
		t.Fatalf("unexpected lobby: %+v", lobby)
	}
}

func TestBeginRefusesUnavailableQuizzes(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	for _, id := range []string{"cat-personality", "mind-flip"} {
		if _, err := service.Begin(ctx, id); !errors.Is(err, domain.ErrQuizUnavailable) {
			t.Fatalf("%s: expected ErrQuizUnavailable, got %v", id, err)
		}
	}
	if _, err := service.Begin(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestScentQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	service, history := newTestService(t)

	view, err := service.Begin(ctx, "scent-personality")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if view.Phase != domain.PhaseIntro {
		t.Fatalf("expected intro, got %s", view.Phase)
	}

	view, err = service.Start(ctx, view.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for view.Phase == domain.PhaseQuestioning {
		q := view.Question
		// First option of every scent question scores for E.
		outcome, err := service.Answer(ctx, view.ID, q.ID, q.Options[0].Value)
		if err != nil {
			t.Fatalf("answer %s: %v", q.ID, err)
		}
		view = outcome.View
	}
	if view.Phase != domain.PhaseGated {
		t.Fatalf("expected gated, got %s", view.Phase)
	}

	if _, err := service.Reveal(ctx, view.ID); !errors.Is(err, domain.ErrInvalidPhase) {
		t.Fatalf("reveal before unlock: %v", err)
	}

	resp, err := service.Unlock(ctx, view.ID, "1234")
	if err != nil || resp.Unlocked || resp.ClearIn != app.GateErrorDuration {
		t.Fatalf("expected rejected code, got %+v %v", resp, err)
	}

	resp, err = service.Unlock(ctx, view.ID, "8888")
	if err != nil || !resp.Unlocked {
		t.Fatalf("unlock: %+v %v", resp, err)
	}
	if resp.Reveal.Result.ID != "E" || resp.Reveal.View.Layout != domain.KindScent {
		t.Fatalf("unexpected reveal: %+v", resp.Reveal)
	}

	entries, _ := history.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Kind != domain.HistoryQuizResult || e.Data.QuizID != "scent-personality" || e.Data.ResultID != "E" || e.Title != "香味人格测试 Lite" {
		t.Fatalf("unexpected history entry: %+v", e)
	}

	poster, err := service.Poster(ctx, view.ID)
	if err != nil {
		t.Fatalf("poster: %v", err)
	}
	if poster.Headline != resp.Reveal.Result.Title {
		t.Fatalf("unexpected poster headline %q", poster.Headline)
	}
}

func TestMBTIFallsBackToFirstResult(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	view, _ := service.Begin(ctx, "mbti-pro")
	view, _ = service.Start(ctx, view.ID)
	for view.Phase == domain.PhaseQuestioning {
		outcome, err := service.Answer(ctx, view.ID, view.Question.ID, view.Question.Options[1].Value)
		if err != nil {
			t.Fatalf("answer: %v", err)
		}
		view = outcome.View
	}

	resp, err := service.Unlock(ctx, view.ID, "8888")
	if err != nil || !resp.Unlocked {
		t.Fatalf("unlock: %+v %v", resp, err)
	}
	if resp.Reveal.Result.ID != "ENTJ" || resp.Reveal.View.Layout != domain.KindGeneric {
		t.Fatalf("expected generic fallback result, got %+v", resp.Reveal)
	}
	if _, err := service.Poster(ctx, view.ID); !errors.Is(err, domain.ErrPosterUnavailable) {
		t.Fatalf("expected no poster for generic layout, got %v", err)
	}
}

func TestAbandonDropsSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	view, _ := service.Begin(ctx, "weather-mood")
	service.Abandon(ctx, view.ID)
	if _, err := service.Snapshot(ctx, view.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.Start(ctx, view.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionsArePrivate(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	a, _ := service.Begin(ctx, "weather-mood")
	b, _ := service.Begin(ctx, "weather-mood")
	if a.ID == b.ID {
		t.Fatalf("expected distinct session ids")
	}
	if _, err := service.Start(ctx, a.ID); err != nil {
		t.Fatalf("start a: %v", err)
	}
	if snap, _ := service.Snapshot(ctx, b.ID); snap.Phase != domain.PhaseIntro {
		t.Fatalf("session b must be untouched, got %s", snap.Phase)
	}
}
