package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-game-service/internal/domain"
)

// AnswerLog is the durable answer history, one row per scored answer.
type AnswerLog struct {
	pool *pgxpool.Pool
}

func NewAnswerLog(pool *pgxpool.Pool) *AnswerLog {
	return &AnswerLog{pool: pool}
}

func (l *AnswerLog) Append(ctx context.Context, entry domain.LoggedAnswer) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO answers (game_id, player_id, question_index, selected_index, is_correct, points_awarded, elapsed_millis, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.GameID, entry.PlayerID, entry.QuestionIndex, entry.SelectedIndex,
		entry.IsCorrect, entry.PointsAwarded, entry.ElapsedMillis, entry.SubmittedAt)
	if err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

func (l *AnswerLog) ListByGame(ctx context.Context, gameID string) ([]domain.LoggedAnswer, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT game_id, player_id, question_index, selected_index, is_correct, points_awarded, elapsed_millis, submitted_at
		 FROM answers WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LoggedAnswer, 0)
	for rows.Next() {
		var entry domain.LoggedAnswer
		if err := rows.Scan(&entry.GameID, &entry.PlayerID, &entry.QuestionIndex, &entry.SelectedIndex,
			&entry.IsCorrect, &entry.PointsAwarded, &entry.ElapsedMillis, &entry.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return entries, nil
}
