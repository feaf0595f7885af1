package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"soul-quiz-service/internal/app"
	"soul-quiz-service/internal/catalog"
	"soul-quiz-service/internal/infra/memory"
	"soul-quiz-service/internal/llm"
)

type testServer struct {
	*httptest.Server
	history *app.HistoryLog
}

func newTestServer(t *testing.T, pacing app.Pacing, provider llm.Provider) *testServer {
	t.Helper()
	history := app.NewHistoryLog(memory.NewHistoryStore(), nil, nil)
	t.Cleanup(history.Close)

	quizRepo := memory.NewQuizRepository(catalog.MustDefault(), time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(time.Hour), quizRepo, history, app.WithPacing(pacing))
	reframer := app.NewReframer(provider, app.ReframeOptions{}, history, nil)

	mux := http.NewServeMux()
	NewAPI(service, reframer, history, nil).Register(mux)
	mux.HandleFunc("GET /ws", NewWSHandler(service, nil).ServeWS)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testServer{Server: server, history: history}
}
