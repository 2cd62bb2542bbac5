package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-game-service/internal/domain"
)

// QuestionBank is the durable question pool in Postgres. It implements
// app.QuestionBank directly and doubles as the loader behind the
// redis-cached bank.
type QuestionBank struct {
	pool *pgxpool.Pool
}

func NewQuestionBank(pool *pgxpool.Pool) *QuestionBank {
	return &QuestionBank{pool: pool}
}

// Sample pushes the random draw down to the database, matching the document
// store's native collection sampling.
func (b *QuestionBank) Sample(ctx context.Context, n int) ([]domain.Question, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT id, prompt, options, correct_index, category, difficulty
		 FROM questions ORDER BY random() LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}
	if len(questions) < n {
		return nil, domain.ErrInsufficientQuestions
	}
	return questions, nil
}

// LoadAll returns the full pool for cache filling.
func (b *QuestionBank) LoadAll(ctx context.Context) ([]domain.Question, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT id, prompt, options, correct_index, category, difficulty FROM questions`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// SeedIfEmpty inserts the default set only into an empty table. Seed ids are
// stable, so racing seeders collapse into ON CONFLICT no-ops instead of
// duplicating rows.
func (b *QuestionBank) SeedIfEmpty(ctx context.Context, defaults []domain.Question) error {
	var count int
	if err := b.pool.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, q := range defaults {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options for %s: %w", q.ID, err)
		}
		_, err = b.pool.Exec(ctx,
			`INSERT INTO questions (id, prompt, options, correct_index, category, difficulty)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			q.ID, q.Prompt, options, q.CorrectIndex, q.Category, q.Difficulty)
		if err != nil {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanQuestions(rows pgxRows) ([]domain.Question, error) {
	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.Prompt, &options, &q.CorrectIndex, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
