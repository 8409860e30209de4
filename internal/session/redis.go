package session

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const channelPrefix = "session:events:"

// RedisBroker publishes events over Redis pub/sub so every server instance sees them
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channelPrefix+ev.UserID, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	ps := b.rdb.Subscribe(ctx, channelPrefix+userID)
	// Wait for the subscription to be confirmed so no publish is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan Event, bufferSize)
	done := make(chan struct{})
	sub := &Subscription{C: out}
	sub.cancel = func() {
		close(done)
		_ = ps.Close()
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logrus.WithFields(logrus.Fields{"channel": msg.Channel, "error": err.Error()}).Warn("Dropping malformed session event")
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()
	return sub, nil
}
