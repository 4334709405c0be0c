// Package notify emits user-facing toasts for thread mutations. A
// mutation can be observed twice — once applied optimistically and once
// as its broadcast echo — so emissions are deduplicated per
// (kind, target) for a short window.
package notify

import (
	"sync"
	"time"
)

// Kind names a logical mutation class.
type Kind string

const (
	KindCommentAdded Kind = "comment_added"
	KindReplyAdded   Kind = "reply_added"
	KindEditSaved    Kind = "edit_saved"
	KindDeleted      Kind = "deleted"
	KindError        Kind = "error"
)

// Notification is one user-facing toast.
type Notification struct {
	Kind     Kind
	TargetID string
	Message  string
}

// Sink receives notifications that survived dedup.
type Sink interface {
	Emit(n Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(n Notification)

func (f SinkFunc) Emit(n Notification) { f(n) }

// DefaultEvictionTTL bounds how long a (kind, target) pair suppresses
// repeats. Long enough to swallow a broadcast echo, short enough that a
// genuinely new mutation on the same id (an edit after an insert, say)
// still notifies.
const DefaultEvictionTTL = 3 * time.Second

// Notifier deduplicates notifications before handing them to a sink.
type Notifier struct {
	sink Sink
	ttl  time.Duration

	mu     sync.Mutex
	seen   map[string]*time.Timer
	closed bool
}

// New creates a notifier with the given eviction window. A ttl of zero
// uses DefaultEvictionTTL.
func New(sink Sink, ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultEvictionTTL
	}
	return &Notifier{sink: sink, ttl: ttl, seen: make(map[string]*time.Timer)}
}

// Notify emits the notification unless the same (kind, target) was
// emitted within the eviction window. Reports whether it was emitted.
func (n *Notifier) Notify(kind Kind, targetID, message string) bool {
	key := string(kind) + "\x1e" + targetID

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return false
	}
	if _, dup := n.seen[key]; dup {
		n.mu.Unlock()
		return false
	}
	n.seen[key] = time.AfterFunc(n.ttl, func() {
		n.mu.Lock()
		delete(n.seen, key)
		n.mu.Unlock()
	})
	n.mu.Unlock()

	n.sink.Emit(Notification{Kind: kind, TargetID: targetID, Message: message})
	return true
}

// Close stops all eviction timers. Further Notify calls are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for key, timer := range n.seen {
		timer.Stop()
		delete(n.seen, key)
	}
}
