package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-game-service/internal/domain"
)

// updateRetries bounds optimistic-concurrency retries before the conflict is
// surfaced to the caller as transient.
const updateRetries = 5

// GameStore keeps each game as a single JSON document in Redis and
// implements app.GameStore. Mutations run under WATCH so two racing Update
// calls can never lose each other's write: the loser's transaction fails and
// is retried against the fresh document.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{client: client, ttl: ttl}
}

func (s *GameStore) Create(ctx context.Context, game *domain.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(game.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store game: %w", err)
	}
	if !ok {
		return domain.ErrGameIDTaken
	}
	// Index for the lobby browser; best effort, the document is the truth.
	s.client.SAdd(ctx, waitingSetKey, game.ID)
	s.client.Expire(ctx, waitingSetKey, s.ttl)
	return nil
}

func (s *GameStore) Get(ctx context.Context, id string) (*domain.Game, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	var game domain.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return nil, fmt.Errorf("unmarshal game: %w", err)
	}
	return &game, nil
}

func (s *GameStore) Update(ctx context.Context, id string, mutate func(*domain.Game) error) (*domain.Game, error) {
	key := s.key(id)
	var updated *domain.Game

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("load game: %w", err)
		}
		var game domain.Game
		if err := json.Unmarshal(raw, &game); err != nil {
			return fmt.Errorf("unmarshal game: %w", err)
		}

		if err := mutate(&game); err != nil {
			return err
		}

		data, err := json.Marshal(&game)
		if err != nil {
			return fmt.Errorf("marshal game: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			if game.Status != domain.StatusWaiting {
				pipe.SRem(ctx, waitingSetKey, game.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}
		updated = &game
		return nil
	}

	for i := 0; i < updateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update game %s: contention not resolved after %d attempts: %w", id, updateRetries, redis.TxFailedErr)
}

func (s *GameStore) ListWaiting(ctx context.Context) ([]*domain.Game, error) {
	ids, err := s.client.SMembers(ctx, waitingSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list waiting games: %w", err)
	}
	waiting := make([]*domain.Game, 0, len(ids))
	for _, id := range ids {
		game, err := s.Get(ctx, id)
		if errors.Is(err, domain.ErrGameNotFound) {
			// Document expired out from under the index.
			s.client.SRem(ctx, waitingSetKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if game.Status == domain.StatusWaiting {
			waiting = append(waiting, game)
		}
	}
	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].CreatedAt.Before(waiting[j].CreatedAt)
	})
	return waiting, nil
}

const waitingSetKey = "games:waiting"

func (s *GameStore) key(id string) string {
	return "game:" + id
}
