package memory

import (
	"context"
	"sync"

	"trivia-game-service/internal/domain"
)

// AnswerLog is an in-process append-only answer history, grouped by game.
type AnswerLog struct {
	mu      sync.RWMutex
	entries map[string][]domain.LoggedAnswer
}

func NewAnswerLog() *AnswerLog {
	return &AnswerLog{entries: make(map[string][]domain.LoggedAnswer)}
}

func (l *AnswerLog) Append(_ context.Context, entry domain.LoggedAnswer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entry.GameID] = append(l.entries[entry.GameID], entry)
	return nil
}

func (l *AnswerLog) ListByGame(_ context.Context, gameID string) ([]domain.LoggedAnswer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.LoggedAnswer(nil), l.entries[gameID]...), nil
}
