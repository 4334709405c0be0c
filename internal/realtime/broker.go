package realtime

import "context"

// Handler receives events for the room a subscription was opened on.
// Handlers run on the broker's delivery goroutine and must not block.
type Handler func(Event)

// Subscription is the handle returned by Join. Closing it leaves the
// room and deregisters the handler; the subscription's lifetime scopes
// the room membership, so teardown cannot leak listeners.
type Subscription interface {
	Close() error
}

// Broker is a room-scoped publish/subscribe channel keyed by complaint
// id. Rejoining a room a client is already in is harmless.
type Broker interface {
	Join(ctx context.Context, complaintID string, h Handler) (Subscription, error)
	Publish(ctx context.Context, ev Event) error
}
