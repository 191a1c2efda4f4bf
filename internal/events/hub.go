package events

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Hub is an in-process Bus. Slow subscribers miss events instead of blocking publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[int64]map[chan StatusEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[int64]map[chan StatusEvent]struct{}{}}
}

func (h *Hub) Publish(_ context.Context, ev StatusEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.CVID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, cvID int64) (<-chan StatusEvent, func(), error) {
	ch := make(chan StatusEvent, subscriberBuffer)

	h.mu.Lock()
	if h.subs[cvID] == nil {
		h.subs[cvID] = map[chan StatusEvent]struct{}{}
	}
	h.subs[cvID][ch] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			h.mu.Lock()
			delete(h.subs[cvID], ch)
			if len(h.subs[cvID]) == 0 {
				delete(h.subs, cvID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()
	return ch, stop, nil
}

// Subscribers reports how many listeners are attached to cvID.
func (h *Hub) Subscribers(cvID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[cvID])
}
