package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisBus fans status events out through redis pub/sub so every API instance sees them.
type RedisBus struct {
	rdb *redis.Client
	log *logrus.Logger
}

func NewRedisBus(rdb *redis.Client, l *logrus.Logger) *RedisBus {
	if l == nil {
		l = logrus.New()
	}
	return &RedisBus{rdb: rdb, log: l}
}

func (b *RedisBus) Publish(ctx context.Context, ev StatusEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel(ev.CVID), payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, cvID int64) (<-chan StatusEvent, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	pubsub := b.rdb.Subscribe(ctx, channel(cvID))

	// wait for the subscription confirmation so no event published afterwards is lost
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan StatusEvent, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var ev StatusEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.WithError(err).WithField("channel", m.Channel).Warn("drop malformed status event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(cancel) }, nil
}
