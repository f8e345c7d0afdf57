package events

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

// RedisPublisher broadcasts events on a pub/sub channel so every API
// instance can deliver them to its own websocket clients.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	if len(evt.Recipients) == 0 {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	return errors.Wrap(p.client.Publish(ctx, p.channel, payload).Err(), "redis publish")
}

// Bridge subscribes to the channel and hands decoded events to sink until
// ctx is done.
func (p *RedisPublisher) Bridge(ctx context.Context, sink Publisher) error {
	sub := p.client.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrap(err, "redis subscribe")
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				zlog.Warn().Err(err).Msg("dropping malformed event from redis")
				continue
			}
			if err := sink.Publish(ctx, evt); err != nil {
				zlog.Warn().Err(err).Str("kind", string(evt.Kind)).Msg("local delivery failed")
			}
		}
	}
}
