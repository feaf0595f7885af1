package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"soul-quiz-service/internal/domain"
)

// HistoryLimit bounds the local history list.
const HistoryLimit = 50

// HistoryStore is the local durable copy of the history list.
type HistoryStore interface {
	Load(ctx context.Context) ([]domain.HistoryEntry, error)
	Save(ctx context.Context, entries []domain.HistoryEntry) error
	Clear(ctx context.Context) error
}

// HistoryMirror receives a best-effort copy of every new entry.
type HistoryMirror interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
}

// HistoryLog is the append-only, bounded record of completed interactions.
// The local store is authoritative; the mirror is written in the background
// and its failures are only logged.
type HistoryLog struct {
	local         HistoryStore
	mirror        HistoryMirror
	logger        *zap.Logger
	mirrorTimeout time.Duration
	now           func() time.Time
	newID         func() string

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// HistoryOption customizes a HistoryLog.
type HistoryOption func(*HistoryLog)

// WithHistoryClock overrides the timestamp source.
func WithHistoryClock(now func() time.Time) HistoryOption {
	return func(h *HistoryLog) { h.now = now }
}

// WithMirrorTimeout bounds each background mirror write.
func WithMirrorTimeout(d time.Duration) HistoryOption {
	return func(h *HistoryLog) { h.mirrorTimeout = d }
}

// NewHistoryLog wires a log over a local store. mirror may be nil.
func NewHistoryLog(local HistoryStore, mirror HistoryMirror, logger *zap.Logger, opts ...HistoryOption) *HistoryLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &HistoryLog{
		local:         local,
		mirror:        mirror,
		logger:        logger,
		mirrorTimeout: 10 * time.Second,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Append stamps the entry, stores it first in the local list and queues the
// mirror write. The returned entry carries the assigned id and timestamp.
func (h *HistoryLog) Append(ctx context.Context, kind domain.HistoryKind, title string, data domain.HistoryData) (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		ID:        h.newID(),
		Kind:      kind,
		Title:     title,
		CreatedAt: h.now().UTC(),
		Data:      data,
	}

	h.mu.Lock()
	existing, err := h.local.Load(ctx)
	if err != nil {
		// An unreadable list is replaced rather than blocking new entries.
		h.logger.Warn("history load failed, starting fresh", zap.Error(err))
		existing = nil
	}
	entries := make([]domain.HistoryEntry, 0, min(len(existing)+1, HistoryLimit))
	entries = append(entries, entry)
	entries = append(entries, existing...)
	if len(entries) > HistoryLimit {
		entries = entries[:HistoryLimit]
	}
	if err := h.local.Save(ctx, entries); err != nil {
		h.mu.Unlock()
		return domain.HistoryEntry{}, err
	}
	h.mirrorAsync(entry)
	h.mu.Unlock()
	return entry, nil
}

// mirrorAsync queues the mirror write. Callers hold h.mu so the Add cannot
// race with Close waiting on inflight.
func (h *HistoryLog) mirrorAsync(entry domain.HistoryEntry) {
	if h.mirror == nil || h.closed {
		return
	}
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.mirrorTimeout)
		defer cancel()
		if err := h.mirror.Append(ctx, entry); err != nil {
			h.logger.Error("history mirror write failed",
				zap.String("id", entry.ID),
				zap.String("type", string(entry.Kind)),
				zap.Error(err))
			return
		}
		h.logger.Debug("history mirrored", zap.String("id", entry.ID))
	}()
}

// List returns entries most recent first.
func (h *HistoryLog) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.local.Load(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

// Clear drops the local list. The remote mirror keeps its rows.
func (h *HistoryLog) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.local.Clear(ctx)
}

// Close stops mirroring and waits for queued mirror writes to finish.
// Entries appended afterwards are kept locally only.
func (h *HistoryLog) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.inflight.Wait()
}
