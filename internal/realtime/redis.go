package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const channelPrefix = "complaint:"

// RoomChannel returns the pub/sub channel name for a complaint's room.
func RoomChannel(complaintID string) string {
	return channelPrefix + complaintID + ":events"
}

// RedisBroker implements Broker over redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker connects to redis at the given URL.
func NewRedisBroker(redisURL string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisBroker{client: client}, nil
}

// NewRedisBrokerWithClient wraps an existing redis client.
func NewRedisBrokerWithClient(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

// Join subscribes to the complaint's room and delivers decoded events
// to the handler until the subscription is closed. Malformed payloads
// and events scoped to a different complaint are dropped.
func (b *RedisBroker) Join(ctx context.Context, complaintID string, h Handler) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, RoomChannel(complaintID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("join room %s: %w", complaintID, err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			ev, err := DecodeEvent([]byte(msg.Payload))
			if err != nil {
				log.Debug().Err(err).Str("complaint", complaintID).Msg("dropping malformed room event")
				continue
			}
			if ev.ComplaintID != complaintID {
				log.Debug().Str("complaint", complaintID).Str("got", ev.ComplaintID).Msg("dropping foreign room event")
				continue
			}
			h(ev)
		}
	}()

	log.Debug().Str("complaint", complaintID).Msg("joined complaint room")
	return &redisSubscription{pubsub: pubsub, complaintID: complaintID}, nil
}

// Publish broadcasts an event to its complaint's room.
func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, RoomChannel(ev.ComplaintID), data).Err(); err != nil {
		return fmt.Errorf("publish to room %s: %w", ev.ComplaintID, err)
	}
	return nil
}

// Ping checks if redis is reachable.
func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the underlying redis connection.
func (b *RedisBroker) Close() error {
	return b.client.Close()
}

type redisSubscription struct {
	pubsub      *redis.PubSub
	complaintID string
}

func (s *redisSubscription) Close() error {
	log.Debug().Str("complaint", s.complaintID).Msg("left complaint room")
	return s.pubsub.Close()
}
