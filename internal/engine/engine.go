// Package engine reconciles one complaint's discussion thread across
// local optimistic mutations, REST write responses, and room broadcast
// events. One Engine serves one screen viewing one complaint; three
// screens used to carry near-identical copies of this logic.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"dwellfix/threads/internal/notify"
	"dwellfix/threads/internal/realtime"
	"dwellfix/threads/internal/thread"
	"dwellfix/threads/internal/util"
)

// RESTClient is the complaint service write surface the engine needs.
// restapi.Client satisfies it; tests substitute fakes.
type RESTClient interface {
	CreateComment(ctx context.Context, complaintID, text string) (thread.Comment, error)
	CreateReply(ctx context.Context, complaintID, parentCommentID, text string) (thread.Reply, error)
	UpdateComment(ctx context.Context, complaintID, commentID, text string) (thread.Comment, error)
	UpdateReply(ctx context.Context, complaintID, commentID, replyID, text string) (thread.Reply, error)
	DeleteComment(ctx context.Context, complaintID, commentID string) error
	DeleteReply(ctx context.Context, complaintID, commentID, replyID string) error
}

// Engine coordinates the thread for one complaint.
type Engine struct {
	complaintID string
	rest        RESTClient
	notifier    *notify.Notifier
	now         func() time.Time

	mu           sync.Mutex
	cur          thread.Thread
	confirm      confirmState
	deleteTarget DeleteTarget
	watchers     []func(thread.Thread)
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier installs the toast side-channel. Without one,
// notifications go nowhere.
func WithNotifier(n *notify.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithClock overrides the timestamp source for optimistic entries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine for one complaint over the given REST client.
func New(complaintID string, rest RESTClient, opts ...Option) *Engine {
	e := &Engine{
		complaintID: complaintID,
		rest:        rest,
		now:         time.Now,
		cur:         thread.Thread{ComplaintID: complaintID},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = notify.New(notify.SinkFunc(func(notify.Notification) {}), 0)
	}
	return e
}

// Load seeds the thread from an initial fetch. It replaces the whole
// tree, so screens call it once on mount before live events flow.
func (e *Engine) Load(comments []thread.Comment) {
	e.mu.Lock()
	e.cur = thread.Thread{ComplaintID: e.complaintID, Comments: comments}
	snapshot := e.cur
	e.mu.Unlock()
	e.publish(snapshot)
}

// Snapshot returns the current thread.
func (e *Engine) Snapshot() thread.Thread {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur
}

// OnChange registers a renderer callback invoked after every applied
// mutation with the new snapshot.
func (e *Engine) OnChange(fn func(thread.Thread)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watchers = append(e.watchers, fn)
}

func (e *Engine) publish(snapshot thread.Thread) {
	e.mu.Lock()
	watchers := append(([]func(thread.Thread))(nil), e.watchers...)
	e.mu.Unlock()
	for _, fn := range watchers {
		fn(snapshot)
	}
}

// PostComment applies the comment optimistically, issues the create,
// and reconciles the placeholder against the authoritative copy. On
// failure the placeholder is rolled back and the thread is exactly as
// it was before the submit.
func (e *Engine) PostComment(ctx context.Context, author thread.AuthorRef, text string) (thread.Comment, error) {
	placeholder := thread.Comment{
		ID:        util.NewPendingID(),
		Author:    author,
		Text:      text,
		CreatedAt: e.now(),
	}

	e.mu.Lock()
	e.cur = e.cur.InsertComment(placeholder)
	snapshot := e.cur
	e.mu.Unlock()
	e.publish(snapshot)

	created, err := e.rest.CreateComment(ctx, e.complaintID, text)
	if err != nil {
		e.mu.Lock()
		e.cur = e.cur.Remove(placeholder.ID)
		snapshot = e.cur
		e.mu.Unlock()
		e.publish(snapshot)
		e.notifier.Notify(notify.KindError, placeholder.ID, "Could not post comment")
		return thread.Comment{}, engineError(CodeCommentCreateFailed, "could not post comment", err)
	}

	e.mu.Lock()
	e.cur = e.cur.ReplaceComment(placeholder.ID, created)
	snapshot = e.cur
	e.mu.Unlock()
	e.publish(snapshot)
	e.notifier.Notify(notify.KindCommentAdded, created.ID, "Comment posted")
	return created, nil
}

// PostReply is PostComment scoped under a parent comment.
func (e *Engine) PostReply(ctx context.Context, parentCommentID string, author thread.AuthorRef, text string) (thread.Reply, error) {
	placeholder := thread.Reply{
		ID:        util.NewPendingID(),
		Author:    author,
		Text:      text,
		CreatedAt: e.now(),
	}

	e.mu.Lock()
	e.cur = e.cur.InsertReply(parentCommentID, placeholder)
	snapshot := e.cur
	e.mu.Unlock()
	e.publish(snapshot)

	created, err := e.rest.CreateReply(ctx, e.complaintID, parentCommentID, text)
	if err != nil {
		e.mu.Lock()
		e.cur = e.cur.RemoveReply(parentCommentID, placeholder.ID)
		snapshot = e.cur
		e.mu.Unlock()
		e.publish(snapshot)
		e.notifier.Notify(notify.KindError, placeholder.ID, "Could not post reply")
		return thread.Reply{}, engineError(CodeReplyCreateFailed, "could not post reply", err)
	}

	e.mu.Lock()
	e.cur = e.cur.ReplaceReply(parentCommentID, placeholder.ID, created)
	snapshot = e.cur
	e.mu.Unlock()
	e.publish(snapshot)
	e.notifier.Notify(notify.KindReplyAdded, created.ID, "Reply posted")
	return created, nil
}

// SaveEdit replaces the text of a comment (replyID empty) or a reply,
// optimistically stamping editedAt and reconciling it against the
// server's value on success. Failure restores the pre-edit entry.
func (e *Engine) SaveEdit(ctx context.Context, commentID, replyID, text string) error {
	targetID := commentID
	if replyID != "" {
		targetID = replyID
	}

	e.mu.Lock()
	prevText, prevEditedAt, ok := e.captureLocked(commentID, replyID)
	if !ok {
		e.mu.Unlock()
		return engineError(CodeUnknownTarget, "edit target not found", nil)
	}
	e.cur = e.cur.UpdateText(targetID, text, e.now())
	snapshot := e.cur
	e.mu.Unlock()
	e.publish(snapshot)

	serverEditedAt, err := e.saveEditRemote(ctx, commentID, replyID, text)
	if err != nil {
		e.mu.Lock()
		e.cur = e.cur.SetText(targetID, prevText, prevEditedAt)
		snapshot = e.cur
		e.mu.Unlock()
		e.publish(snapshot)
		e.notifier.Notify(notify.KindError, targetID, "Could not save edit")
		return engineError(CodeEditFailed, "could not save edit", err)
	}

	if serverEditedAt != nil {
		e.mu.Lock()
		e.cur = e.cur.SetText(targetID, text, serverEditedAt)
		snapshot = e.cur
		e.mu.Unlock()
		e.publish(snapshot)
	}
	e.notifier.Notify(notify.KindEditSaved, targetID, "Edit saved")
	return nil
}

func (e *Engine) captureLocked(commentID, replyID string) (string, *time.Time, bool) {
	if replyID == "" {
		c, ok := e.cur.Comment(commentID)
		if !ok {
			return "", nil, false
		}
		return c.Text, c.EditedAt, true
	}
	r, ok := e.cur.Reply(commentID, replyID)
	if !ok {
		return "", nil, false
	}
	return r.Text, r.EditedAt, true
}

func (e *Engine) saveEditRemote(ctx context.Context, commentID, replyID, text string) (*time.Time, error) {
	if replyID == "" {
		updated, err := e.rest.UpdateComment(ctx, e.complaintID, commentID, text)
		if err != nil {
			return nil, err
		}
		return updated.EditedAt, nil
	}
	updated, err := e.rest.UpdateReply(ctx, e.complaintID, commentID, replyID, text)
	if err != nil {
		return nil, err
	}
	return updated.EditedAt, nil
}

// HandleEvent applies a room broadcast. Inserts are idempotent by id,
// so an echo of this client's own mutation converges to one entry no
// matter which of the local apply and the echo lands first. Broadcasts
// cannot fail locally: unknown parents and duplicates are no-ops.
func (e *Engine) HandleEvent(ev realtime.Event) {
	if ev.ComplaintID != e.complaintID {
		log.Debug().Str("complaint", e.complaintID).Str("got", ev.ComplaintID).Msg("ignoring event for another complaint")
		return
	}

	switch ev.Event {
	case realtime.EventCommentAdded:
		e.mu.Lock()
		before := e.cur
		e.cur = e.cur.InsertComment(*ev.Comment)
		changed := !sameComments(before, e.cur)
		snapshot := e.cur
		e.mu.Unlock()
		if changed {
			e.publish(snapshot)
		}
		e.notifier.Notify(notify.KindCommentAdded, ev.Comment.ID, "New comment")
	case realtime.EventReplyAdded:
		e.mu.Lock()
		before := e.cur
		e.cur = e.cur.InsertReply(ev.ParentCommentID, *ev.Reply)
		changed := !sameComments(before, e.cur)
		snapshot := e.cur
		e.mu.Unlock()
		if changed {
			e.publish(snapshot)
		}
		e.notifier.Notify(notify.KindReplyAdded, ev.Reply.ID, "New reply")
	default:
		log.Debug().Str("event", ev.Event).Msg("ignoring unknown event kind")
	}
}

// sameComments is a cheap changed-check: the pure store ops return the
// receiver unchanged on a no-op, so slice identity is enough.
func sameComments(a, b thread.Thread) bool {
	if len(a.Comments) != len(b.Comments) {
		return false
	}
	return len(a.Comments) == 0 || &a.Comments[0] == &b.Comments[0]
}

// ComplaintID returns the complaint this engine serves.
func (e *Engine) ComplaintID() string { return e.complaintID }
