package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"soul-quiz-service/internal/app"
	"soul-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type introPayload struct {
	Session app.SessionView `json:"session"`
	Quiz    domain.Listing  `json:"quiz"`
	Theme   domain.Theme    `json:"theme"`
}

type gateErrorPayload struct {
	ClearInMs int64 `json:"clearInMs"`
}

// paced is an outbound message held back for delay before it is written.
type paced struct {
	delay time.Duration
	msg   outboundMessage[any]
}

// ServeWS runs one quiz session over a websocket. Each connection owns a
// fresh session; closing the socket abandons it.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	quiz, err := h.service.Quiz(ctx, quizID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	view, err := h.service.Begin(ctx, quizID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	sessionID := view.ID
	defer h.service.Abandon(ctx, sessionID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	queue := make(chan paced, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	pacerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("ws write error", zap.String("session", sessionID), zap.Error(err))
				return
			}
		}
	}()

	// The pacer holds each message back for its delay. Messages leave in the
	// order they were queued.
	go func() {
		defer close(pacerDone)
		for p := range queue {
			if p.delay > 0 {
				timer := time.NewTimer(p.delay)
				select {
				case <-timer.C:
				case <-closeSignals:
					timer.Stop()
					return
				case <-writerDone:
					timer.Stop()
					return
				}
			}
			select {
			case send <- p.msg:
			case <-closeSignals:
				return
			case <-writerDone:
				return
			}
		}
	}()

	emit := func(typ string, payload any, delay time.Duration) bool {
		select {
		case queue <- paced{delay: delay, msg: outboundMessage[any]{Type: typ, Payload: payload}}:
			return true
		case <-pacerDone:
			return false
		}
	}

	emit("intro", introPayload{Session: view, Quiz: quiz.Listing(), Theme: quiz.ThemeOrDefault()}, 0)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		typ, payload, delay := h.dispatch(r, sessionID, inbound)
		if !emit(typ, payload, delay) {
			break
		}
	}

	close(closeSignals)
	close(queue)
	<-pacerDone
	close(send)
	<-writerDone
}

// dispatch applies one client message to the session and returns the event
// to push back. Failures become error events; the connection stays open.
func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage) (string, any, time.Duration) {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		started, err := h.service.Start(ctx, sessionID)
		if err != nil {
			return "error", errorPayload{Message: err.Error()}, 0
		}
		return "question", started, 0
	case "answer":
		var payload struct {
			QuestionID string `json:"questionId"`
			Value      string `json:"value"`
		}
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return "error", errorPayload{Message: "invalid answer payload"}, 0
		}
		outcome, err := h.service.Answer(ctx, sessionID, payload.QuestionID, payload.Value)
		if err != nil {
			return "error", errorPayload{Message: err.Error()}, 0
		}
		if outcome.Completed {
			return "gated", outcome.View, outcome.Delay
		}
		return "question", outcome.View, outcome.Delay
	case "unlock":
		var payload struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return "error", errorPayload{Message: "invalid unlock payload"}, 0
		}
		resp, err := h.service.Unlock(ctx, sessionID, payload.Code)
		if err != nil {
			return "error", errorPayload{Message: err.Error()}, 0
		}
		if !resp.Unlocked {
			return "gateError", gateErrorPayload{ClearInMs: resp.ClearIn.Milliseconds()}, 0
		}
		return "result", resp.Reveal, 0
	default:
		return "error", errorPayload{Message: "unsupported message type"}, 0
	}
}
