package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"soul-quiz-service/internal/app"
	"soul-quiz-service/internal/catalog"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	quiz, _ := catalog.MustDefault().Get("weather-mood")

	store.Put(app.NewSession("s1", quiz, app.Pacing{}))
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:session:s1"); got != "weather-mood" {
		t.Fatalf("expected quiz id as marker value, got %q", got)
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("s1")
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session gone")
	}
}

func TestSessionStoreDropsExpiredSessions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	quiz, _ := catalog.MustDefault().Get("weather-mood")
	store.Put(app.NewSession("s1", quiz, app.Pacing{}))

	mr.FastForward(45 * time.Second)
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected live session")
	}
	mr.FastForward(45 * time.Second)
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("access should have refreshed the ttl")
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session to expire with its redis key")
	}
}

func TestSessionStorePutSweepsExpiredSessions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	quiz, _ := catalog.MustDefault().Get("weather-mood")
	for _, id := range []string{"s1", "s2", "s3"} {
		store.Put(app.NewSession(id, quiz, app.Pacing{}))
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", store.Len())
	}

	mr.FastForward(2 * time.Hour)
	store.Put(app.NewSession("fresh", quiz, app.Pacing{}))

	if store.Len() != 1 {
		t.Fatalf("expected only the fresh session to remain, got %d", store.Len())
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatalf("expected fresh session present")
	}
}

func TestSessionStoreSweepKeepsLiveSessions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	quiz, _ := catalog.MustDefault().Get("weather-mood")
	store.Put(app.NewSession("s1", quiz, app.Pacing{}))
	mr.FastForward(30 * time.Second)
	store.Put(app.NewSession("s2", quiz, app.Pacing{}))

	if store.Len() != 2 {
		t.Fatalf("live sessions must survive the sweep, got %d", store.Len())
	}
}
