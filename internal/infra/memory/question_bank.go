package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-game-service/internal/domain"
)

// QuestionBank is an in-process implementation of app.QuestionBank backed by
// a plain slice. Useful for tests and redis-less single-node runs.
type QuestionBank struct {
	mu        sync.Mutex
	questions []domain.Question
	rnd       *rand.Rand
}

func NewQuestionBank(initial []domain.Question) *QuestionBank {
	return &QuestionBank{
		questions: append([]domain.Question(nil), initial...),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Sample draws n questions uniformly at random without replacement.
func (b *QuestionBank) Sample(_ context.Context, n int) ([]domain.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.questions) < n {
		return nil, domain.ErrInsufficientQuestions
	}
	sample := make([]domain.Question, 0, n)
	for _, idx := range b.rnd.Perm(len(b.questions))[:n] {
		sample = append(sample, b.questions[idx])
	}
	return sample, nil
}

// SeedIfEmpty inserts defaults only when the bank holds nothing. The mutex
// makes concurrent seeding insert at most once.
func (b *QuestionBank) SeedIfEmpty(_ context.Context, defaults []domain.Question) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.questions) > 0 {
		return nil
	}
	b.questions = append([]domain.Question(nil), defaults...)
	return nil
}

// LoadAll returns a copy of the whole pool; it lets the bank double as the
// backing loader for the redis-cached bank.
func (b *QuestionBank) LoadAll(_ context.Context) ([]domain.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Question(nil), b.questions...), nil
}

// Len reports the bank size.
func (b *QuestionBank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.questions)
}
