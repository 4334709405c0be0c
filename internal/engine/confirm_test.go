package engine

import (
	"context"
	"errors"
	"testing"

	"dwellfix/threads/internal/thread"
)

func seededEngine(t *testing.T, rest RESTClient) *Engine {
	t.Helper()
	e := newEngine(t, rest)
	e.Load([]thread.Comment{{
		ID: "c1", Author: author, Text: "hi", CreatedAt: base,
		Replies: []thread.Reply{{ID: "r1", Author: author, Text: "yo", CreatedAt: base}},
	}})
	return e
}

func TestDeleteConfirmationFlow(t *testing.T) {
	e := seededEngine(t, &fakeREST{})

	// Initiate on the reply: pending.
	if err := e.RequestDelete("c1", "r1"); err != nil {
		t.Fatalf("RequestDelete failed: %v", err)
	}
	target, pending := e.PendingDelete()
	if !pending || target.CommentID != "c1" || target.ReplyID != "r1" {
		t.Fatalf("unexpected pending target: %+v pending=%v", target, pending)
	}

	// Cancel: idle, reply still there.
	e.CancelDelete()
	if _, pending := e.PendingDelete(); pending {
		t.Fatal("still pending after cancel")
	}
	if _, ok := e.Snapshot().Reply("c1", "r1"); !ok {
		t.Fatal("reply removed by cancel")
	}

	// Re-initiate and confirm: idle, reply gone.
	if err := e.RequestDelete("c1", "r1"); err != nil {
		t.Fatalf("RequestDelete failed: %v", err)
	}
	if err := e.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete failed: %v", err)
	}
	if _, pending := e.PendingDelete(); pending {
		t.Fatal("still pending after confirm")
	}
	if _, ok := e.Snapshot().Reply("c1", "r1"); ok {
		t.Fatal("reply still present after confirmed delete")
	}
	if !e.Snapshot().HasComment("c1") {
		t.Fatal("parent comment removed by reply delete")
	}
}

func TestSecondDeleteRequestRejectedWhilePending(t *testing.T) {
	e := seededEngine(t, &fakeREST{})

	if err := e.RequestDelete("c1", ""); err != nil {
		t.Fatalf("first RequestDelete failed: %v", err)
	}
	err := e.RequestDelete("c1", "r1")
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Code != CodeDeletePending {
		t.Fatalf("expected %s, got %v", CodeDeletePending, err)
	}

	// The first target is the one that stays.
	target, _ := e.PendingDelete()
	if target.ReplyID != "" || target.CommentID != "c1" {
		t.Errorf("pending target replaced: %+v", target)
	}
}

func TestConfirmDeleteFailureLeavesTreeUntouched(t *testing.T) {
	rest := &fakeREST{
		deleteCommentFn: func(context.Context, string, string) error {
			return errors.New("500")
		},
	}
	e := seededEngine(t, rest)

	if err := e.RequestDelete("c1", ""); err != nil {
		t.Fatalf("RequestDelete failed: %v", err)
	}
	err := e.ConfirmDelete(context.Background())
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Code != CodeDeleteFailed {
		t.Fatalf("expected %s, got %v", CodeDeleteFailed, err)
	}

	// Back to idle, nothing removed: deletes are never optimistic.
	if _, pending := e.PendingDelete(); pending {
		t.Error("still pending after failed confirm")
	}
	if !e.Snapshot().HasComment("c1") {
		t.Error("comment removed despite failed delete")
	}
}

func TestConfirmedCommentDeleteRemovesReplies(t *testing.T) {
	e := seededEngine(t, &fakeREST{})
	if err := e.RequestDelete("c1", ""); err != nil {
		t.Fatalf("RequestDelete failed: %v", err)
	}
	if err := e.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete failed: %v", err)
	}
	if len(e.Snapshot().Comments) != 0 {
		t.Errorf("comment not removed: %+v", e.Snapshot().Comments)
	}
}

func TestConfirmWithoutPendingRejected(t *testing.T) {
	e := seededEngine(t, &fakeREST{})
	err := e.ConfirmDelete(context.Background())
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Code != CodeNoPendingDelete {
		t.Fatalf("expected %s, got %v", CodeNoPendingDelete, err)
	}
}

func TestRequestDeleteUnknownTargetRejected(t *testing.T) {
	e := seededEngine(t, &fakeREST{})
	for _, tc := range []struct{ commentID, replyID string }{
		{"zzz", ""},
		{"c1", "zzz"},
	} {
		err := e.RequestDelete(tc.commentID, tc.replyID)
		var engErr *Error
		if !errors.As(err, &engErr) || engErr.Code != CodeUnknownTarget {
			t.Errorf("(%q,%q): expected %s, got %v", tc.commentID, tc.replyID, CodeUnknownTarget, err)
		}
	}
}

func TestCancelWithoutPendingIsNoop(t *testing.T) {
	e := seededEngine(t, &fakeREST{})
	e.CancelDelete()
	if _, pending := e.PendingDelete(); pending {
		t.Fatal("cancel created a pending delete")
	}
}
