package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-game-service/internal/domain"
)

// GameStore is an in-process implementation of app.GameStore. It keeps deep
// copies on every read and write so callers can never reach into the stored
// document, mirroring the isolation a real document store gives. Atomicity
// of Update comes from the store mutex.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*domain.Game
}

func NewGameStore() *GameStore {
	return &GameStore{games: make(map[string]*domain.Game)}
}

func (s *GameStore) Create(_ context.Context, game *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; ok {
		return domain.ErrGameIDTaken
	}
	s.games[game.ID] = cloneGame(game)
	return nil
}

func (s *GameStore) Get(_ context.Context, id string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return cloneGame(game), nil
}

func (s *GameStore) Update(_ context.Context, id string, mutate func(*domain.Game) error) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	next := cloneGame(stored)
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.games[id] = next
	return cloneGame(next), nil
}

func (s *GameStore) ListWaiting(_ context.Context) ([]*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	waiting := make([]*domain.Game, 0)
	for _, game := range s.games {
		if game.Status == domain.StatusWaiting {
			waiting = append(waiting, cloneGame(game))
		}
	}
	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].CreatedAt.Before(waiting[j].CreatedAt)
	})
	return waiting, nil
}

func cloneGame(g *domain.Game) *domain.Game {
	cp := *g
	cp.Players = make([]domain.Player, len(g.Players))
	for i, p := range g.Players {
		cp.Players[i] = p
		if p.Answers != nil {
			answers := make(map[int]domain.AnswerRecord, len(p.Answers))
			for k, v := range p.Answers {
				answers[k] = v
			}
			cp.Players[i].Answers = answers
		}
	}
	// Questions are frozen once sampled, copying the slice header is enough.
	cp.Questions = append([]domain.Question(nil), g.Questions...)
	if g.QuestionStartTime != nil {
		t := *g.QuestionStartTime
		cp.QuestionStartTime = &t
	}
	if g.StartedAt != nil {
		t := *g.StartedAt
		cp.StartedAt = &t
	}
	if g.FinishedAt != nil {
		t := *g.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}
