package engine

import (
	"context"

	"dwellfix/threads/internal/notify"
)

// Deletion is the one mutation class that is not optimistic: it is
// irreversible, so nothing leaves the tree until the server confirms.
// The state machine mirrors the single confirmation dialog: at most one
// pending target, entered by RequestDelete, left by cancel or confirm.

type confirmState int

const (
	confirmIdle confirmState = iota
	confirmPending
	confirmInFlight
)

// DeleteTarget names the node a pending deletion would remove: a
// comment, or a single reply when ReplyID is set.
type DeleteTarget struct {
	CommentID string
	ReplyID   string
}

// IsReply reports whether the target is a reply rather than a comment.
func (t DeleteTarget) IsReply() bool { return t.ReplyID != "" }

// RequestDelete records the target and moves to pending confirmation.
// A second request while one is pending is rejected; the first target
// stays.
func (e *Engine) RequestDelete(commentID, replyID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.confirm != confirmIdle {
		return engineError(CodeDeletePending, "another deletion is awaiting confirmation", nil)
	}
	if replyID == "" {
		if !e.cur.HasComment(commentID) {
			return engineError(CodeUnknownTarget, "comment not found", nil)
		}
	} else if _, ok := e.cur.Reply(commentID, replyID); !ok {
		return engineError(CodeUnknownTarget, "reply not found", nil)
	}

	e.confirm = confirmPending
	e.deleteTarget = DeleteTarget{CommentID: commentID, ReplyID: replyID}
	return nil
}

// PendingDelete returns the recorded target while a confirmation is
// outstanding.
func (e *Engine) PendingDelete() (DeleteTarget, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.confirm == confirmIdle {
		return DeleteTarget{}, false
	}
	return e.deleteTarget, true
}

// CancelDelete returns to idle without side effects. Cancelling with
// nothing pending is a no-op.
func (e *Engine) CancelDelete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.confirm == confirmPending {
		e.confirm = confirmIdle
		e.deleteTarget = DeleteTarget{}
	}
}

// ConfirmDelete issues the delete for the recorded target. On success
// the node is removed from the tree; on failure the tree is untouched.
// Either way the state machine returns to idle.
func (e *Engine) ConfirmDelete(ctx context.Context) error {
	e.mu.Lock()
	if e.confirm != confirmPending {
		e.mu.Unlock()
		return engineError(CodeNoPendingDelete, "no deletion awaiting confirmation", nil)
	}
	target := e.deleteTarget
	e.confirm = confirmInFlight
	e.mu.Unlock()

	var err error
	if target.IsReply() {
		err = e.rest.DeleteReply(ctx, e.complaintID, target.CommentID, target.ReplyID)
	} else {
		err = e.rest.DeleteComment(ctx, e.complaintID, target.CommentID)
	}

	e.mu.Lock()
	e.confirm = confirmIdle
	e.deleteTarget = DeleteTarget{}
	if err != nil {
		e.mu.Unlock()
		return engineError(CodeDeleteFailed, "could not delete", err)
	}
	if target.IsReply() {
		e.cur = e.cur.RemoveReply(target.CommentID, target.ReplyID)
	} else {
		e.cur = e.cur.Remove(target.CommentID)
	}
	snapshot := e.cur
	e.mu.Unlock()

	e.publish(snapshot)
	deletedID := target.CommentID
	if target.IsReply() {
		deletedID = target.ReplyID
	}
	e.notifier.Notify(notify.KindDeleted, deletedID, "Deleted")
	return nil
}
