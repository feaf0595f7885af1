package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"soul-quiz-service/internal/domain"
)

// HistoryRow is one mirrored history entry. Rows are append-only; clearing the
// local history leaves them in place.
type HistoryRow struct {
	bun.BaseModel `bun:"table:history"`

	ID        int64              `bun:"id,pk,autoincrement"`
	EntryID   string             `bun:"entry_id,notnull"`
	Type      domain.HistoryKind `bun:"type,notnull"`
	Title     string             `bun:"title,notnull"`
	Data      domain.HistoryData `bun:"data,type:jsonb,notnull"`
	CreatedAt time.Time          `bun:"created_at,notnull"`
}

// HistoryMirror writes history entries to the history table.
type HistoryMirror struct {
	db *bun.DB
}

func NewHistoryMirror(db *bun.DB) *HistoryMirror {
	return &HistoryMirror{db: db}
}

// Append inserts one entry.
func (m *HistoryMirror) Append(ctx context.Context, entry domain.HistoryEntry) error {
	row := &HistoryRow{
		EntryID:   entry.ID,
		Type:      entry.Kind,
		Title:     entry.Title,
		Data:      entry.Data,
		CreatedAt: entry.CreatedAt,
	}
	if _, err := m.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}
