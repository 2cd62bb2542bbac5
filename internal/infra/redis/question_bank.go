package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-game-service/internal/domain"
)

// BankLoader is the backing store the cached bank fills from (postgres or an
// in-memory set).
type BankLoader interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
	SeedIfEmpty(ctx context.Context, defaults []domain.Question) error
}

// QuestionBank caches the full question pool in a Redis hash
// (HSET questions:bank {questionID} {json}) and samples from the cached set,
// falling back to the loader on a miss. Questions are immutable so a stale
// cache only delays seeing newly added items until the TTL rolls over.
type QuestionBank struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	// rndMu serializes rnd; *rand.Rand is not safe for concurrent use.
	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionBank(client *redis.Client, loader BankLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const bankKey = "questions:bank"

func (b *QuestionBank) Sample(ctx context.Context, n int) ([]domain.Question, error) {
	pool, err := b.pool(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) < n {
		return nil, domain.ErrInsufficientQuestions
	}
	b.rndMu.Lock()
	perm := b.rnd.Perm(len(pool))
	b.rndMu.Unlock()

	sample := make([]domain.Question, 0, n)
	for _, idx := range perm[:n] {
		sample = append(sample, pool[idx])
	}
	return sample, nil
}

// SeedIfEmpty defers to the backing loader and drops the cache so the next
// sample sees the seeded set.
func (b *QuestionBank) SeedIfEmpty(ctx context.Context, defaults []domain.Question) error {
	if err := b.loader.SeedIfEmpty(ctx, defaults); err != nil {
		return err
	}
	b.client.Del(ctx, bankKey)
	return nil
}

func (b *QuestionBank) pool(ctx context.Context) ([]domain.Question, error) {
	cached, err := b.client.HGetAll(ctx, bankKey).Result()
	if err == nil && len(cached) > 0 {
		return decodePool(cached)
	}

	result, err, _ := b.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		cached, err := b.client.HGetAll(ctx, bankKey).Result()
		if err == nil && len(cached) > 0 {
			return decodePool(cached)
		}

		pool, err := b.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			return pool, nil
		}

		pipe := b.client.Pipeline()
		for _, q := range pool {
			data, err := json.Marshal(q)
			if err != nil {
				return nil, fmt.Errorf("marshal question %s: %w", q.ID, err)
			}
			pipe.HSet(ctx, bankKey, q.ID, data)
		}
		if b.ttl > 0 {
			pipe.Expire(ctx, bankKey, b.ttlWithJitter())
		}
		_, _ = pipe.Exec(ctx)
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func decodePool(cached map[string]string) ([]domain.Question, error) {
	pool := make([]domain.Question, 0, len(cached))
	for id, raw := range cached {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("unmarshal cached question %s: %w", id, err)
		}
		pool = append(pool, q)
	}
	return pool, nil
}

// ttlWithJitter spreads expirations by up to 10%.
func (b *QuestionBank) ttlWithJitter() time.Duration {
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
