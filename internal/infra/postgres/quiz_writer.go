package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"soul-quiz-service/internal/domain"
)

// QuizRow is one stored quiz definition.
type QuizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID       string      `bun:"id,pk"`
	Position int         `bun:"position,notnull"`
	Data     domain.Quiz `bun:"data,type:jsonb,notnull"`
}

// QuizWriter upserts quiz definitions.
type QuizWriter struct {
	db *bun.DB
}

func NewQuizWriter(db *bun.DB) *QuizWriter {
	return &QuizWriter{db: db}
}

// Upsert stores quizzes in the given order, replacing existing rows by id.
func (w *QuizWriter) Upsert(ctx context.Context, quizzes []domain.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}
	rows := make([]QuizRow, 0, len(quizzes))
	for i, q := range quizzes {
		rows = append(rows, QuizRow{ID: q.ID, Position: i, Data: q})
	}
	_, err := w.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("position = EXCLUDED.position").
		Set("data = EXCLUDED.data").
		Set("updated_at = now()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert quizzes: %w", err)
	}
	return nil
}
