package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-game-service/internal/domain"
)

// AnswerLog appends scored answers to a per-game Redis list. The list shares
// the game document's TTL so the history dies with the game.
type AnswerLog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnswerLog(client *redis.Client, ttl time.Duration) *AnswerLog {
	return &AnswerLog{client: client, ttl: ttl}
}

func (l *AnswerLog) Append(ctx context.Context, entry domain.LoggedAnswer) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	key := l.key(entry.GameID)
	pipe := l.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if l.ttl > 0 {
		pipe.Expire(ctx, key, l.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

func (l *AnswerLog) ListByGame(ctx context.Context, gameID string) ([]domain.LoggedAnswer, error) {
	raw, err := l.client.LRange(ctx, l.key(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	entries := make([]domain.LoggedAnswer, 0, len(raw))
	for _, item := range raw {
		var entry domain.LoggedAnswer
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal answer: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *AnswerLog) key(gameID string) string {
	return "game:" + gameID + ":answers"
}
