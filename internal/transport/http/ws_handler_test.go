package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"soul-quiz-service/internal/app"
)

type wsEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func TestWebSocketQuizFlow(t *testing.T) {
	server := newTestServer(t, app.Pacing{}, nil)
	conn := dial(t, server.URL, "scent-personality")

	intro := readNext(t, conn, "intro")
	var introBody struct {
		Session app.SessionView `json:"session"`
		Quiz    struct {
			Title string `json:"title"`
		} `json:"quiz"`
		Theme struct {
			StartLabel string `json:"startLabel"`
		} `json:"theme"`
	}
	decode(t, intro, &introBody)
	if introBody.Session.Phase != "intro" || introBody.Quiz.Title == "" || introBody.Theme.StartLabel == "" {
		t.Fatalf("unexpected intro: %+v", introBody)
	}

	send(t, conn, "start", nil)
	view := readView(t, conn, "question")
	if view.Index != 0 || view.Question == nil {
		t.Fatalf("expected first question, got %+v", view)
	}

	for i := 0; i < view.Total; i++ {
		send(t, conn, "answer", map[string]string{
			"questionId": view.Question.ID,
			"value":      view.Question.Options[0].Value,
		})
		if i < view.Total-1 {
			next := readView(t, conn, "question")
			if next.Index != i+1 {
				t.Fatalf("expected question %d, got %d", i+1, next.Index)
			}
			view.Question = next.Question
			continue
		}
		gated := readView(t, conn, "gated")
		if gated.Phase != "gated" {
			t.Fatalf("expected gated, got %s", gated.Phase)
		}
	}

	send(t, conn, "unlock", map[string]string{"code": "1234"})
	var gateErr struct {
		ClearInMs int64 `json:"clearInMs"`
	}
	decode(t, readNext(t, conn, "gateError"), &gateErr)
	if gateErr.ClearInMs != app.GateErrorDuration.Milliseconds() {
		t.Fatalf("unexpected clear delay %d", gateErr.ClearInMs)
	}

	send(t, conn, "unlock", map[string]string{"code": " 8888 "})
	var reveal struct {
		Result struct {
			ID string `json:"id"`
		} `json:"result"`
		View struct {
			Layout string `json:"layout"`
			Poster *struct {
				Headline string `json:"headline"`
			} `json:"poster"`
		} `json:"view"`
	}
	decode(t, readNext(t, conn, "result"), &reveal)
	if reveal.Result.ID != "E" || reveal.View.Layout != "scent-personality" || reveal.View.Poster == nil {
		t.Fatalf("unexpected reveal: %+v", reveal)
	}

	entries, err := server.history.List(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 || entries[0].Data.ResultID != "E" {
		t.Fatalf("expected one recorded result, got %+v", entries)
	}
}

func TestWebSocketReportsErrorsWithoutClosing(t *testing.T) {
	server := newTestServer(t, app.Pacing{}, nil)
	conn := dial(t, server.URL, "weather-mood")
	readNext(t, conn, "intro")

	send(t, conn, "unlock", map[string]string{"code": "8888"})
	readNext(t, conn, "error")

	send(t, conn, "dance", nil)
	readNext(t, conn, "error")

	send(t, conn, "start", nil)
	view := readView(t, conn, "question")
	send(t, conn, "answer", map[string]string{"questionId": view.Question.ID, "value": "nope"})
	readNext(t, conn, "error")
}

func TestWebSocketPacesQuestions(t *testing.T) {
	pacing := app.Pacing{Advance: 80 * time.Millisecond, Gate: 120 * time.Millisecond}
	server := newTestServer(t, pacing, nil)
	conn := dial(t, server.URL, "weather-mood")
	readNext(t, conn, "intro")

	send(t, conn, "start", nil)
	view := readView(t, conn, "question")

	started := time.Now()
	send(t, conn, "answer", map[string]string{"questionId": view.Question.ID, "value": view.Question.Options[0].Value})
	readView(t, conn, "question")
	if elapsed := time.Since(started); elapsed < pacing.Advance {
		t.Fatalf("next question arrived after %s, want at least %s", elapsed, pacing.Advance)
	}
}

func TestWebSocketRejectsUnknownQuiz(t *testing.T) {
	server := newTestServer(t, app.Pacing{}, nil)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server.URL, "missing"), nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %+v", resp)
	}

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(server.URL, "cat-personality"), nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for quiz without questions, got %v %+v", err, resp)
	}
}

func wsURL(base, quizID string) string {
	return "ws" + base[len("http"):] + "/ws?quizId=" + quizID
}

func dial(t *testing.T, base, quizID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(base, quizID), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn, expect string) json.RawMessage {
	t.Helper()
	var msg wsEvent
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read %s: %v", expect, err)
	}
	if msg.Type != expect {
		t.Fatalf("expected %s, got %s (%s)", expect, msg.Type, msg.Payload)
	}
	return msg.Payload
}

func readView(t *testing.T, conn *websocket.Conn, expect string) app.SessionView {
	t.Helper()
	var view app.SessionView
	decode(t, readNext(t, conn, expect), &view)
	return view
}

func decode(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}
