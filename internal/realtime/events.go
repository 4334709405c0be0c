// Package realtime delivers complaint-room broadcast events. A room is
// the pub/sub scope for one complaint; every subscriber, including the
// originator of a mutation, receives that room's events.
package realtime

import (
	"encoding/json"
	"fmt"

	"dwellfix/threads/internal/thread"
)

const (
	EventCommentAdded = "comment:added"
	EventReplyAdded   = "reply:added"
)

// Event is one broadcast on a complaint's room.
type Event struct {
	Event           string          `json:"event"`
	ComplaintID     string          `json:"complaintId"`
	ParentCommentID string          `json:"parentCommentId,omitempty"`
	Comment         *thread.Comment `json:"comment,omitempty"`
	Reply           *thread.Reply   `json:"reply,omitempty"`
}

// CommentAdded builds a comment:added event.
func CommentAdded(complaintID string, c thread.Comment) Event {
	return Event{Event: EventCommentAdded, ComplaintID: complaintID, Comment: &c}
}

// ReplyAdded builds a reply:added event.
func ReplyAdded(complaintID, parentCommentID string, r thread.Reply) Event {
	return Event{Event: EventReplyAdded, ComplaintID: complaintID, ParentCommentID: parentCommentID, Reply: &r}
}

// EncodeEvent serializes an event for the wire.
func EncodeEvent(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}

// DecodeEvent parses a wire payload. Payloads with an unknown event
// kind or a missing entity are rejected here and dropped by callers;
// a malformed broadcast is never fatal.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	switch ev.Event {
	case EventCommentAdded:
		if ev.Comment == nil {
			return Event{}, fmt.Errorf("comment:added without comment payload")
		}
	case EventReplyAdded:
		if ev.Reply == nil || ev.ParentCommentID == "" {
			return Event{}, fmt.Errorf("reply:added without reply payload or parent")
		}
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", ev.Event)
	}
	if ev.ComplaintID == "" {
		return Event{}, fmt.Errorf("event without complaint id")
	}
	return ev, nil
}
