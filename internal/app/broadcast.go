package app

import (
	"sync"

	"trivia-game-service/internal/domain"
)

// Broadcaster fans game snapshots out to websocket subscribers. It is a
// best-effort mirror of the polling API: a client that never subscribes
// still sees every state change by re-fetching.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan *domain.Game]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[chan *domain.Game]struct{})}
}

// Subscribe registers for snapshot updates of one game. The caller must
// invoke the returned cancel function to release the channel.
func (b *Broadcaster) Subscribe(gameID string) (<-chan *domain.Game, func()) {
	ch := make(chan *domain.Game, 8)

	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan *domain.Game]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[gameID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, gameID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the game. Slow
// subscribers have their oldest pending update dropped instead of blocking
// the publisher; only the latest snapshot matters.
func (b *Broadcaster) Publish(game *domain.Game) {
	if game == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[game.ID] {
		select {
		case ch <- game:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- game
		}
	}
}
