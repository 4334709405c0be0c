package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func recordingServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &rec.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestCreateCommentDecodesAuthoritativeCopy(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK,
		`{"id":"cmt_1","author":"user-1","text":"hi","createdAt":"2026-03-14T10:00:00Z"}`)
	c := New(srv.URL, "tok")

	got, err := c.CreateComment(context.Background(), "cp1", "hi")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if got.ID != "cmt_1" || got.Text != "hi" {
		t.Errorf("unexpected comment: %+v", got)
	}
	if rec.method != http.MethodPost || rec.path != "/complaints/cp1/comment" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.auth != "Bearer tok" {
		t.Errorf("missing bearer token, got %q", rec.auth)
	}
	if rec.body["text"] != "hi" {
		t.Errorf("unexpected body: %v", rec.body)
	}
	if _, ok := rec.body["parentCommentId"]; ok {
		t.Error("top-level comment must not carry parentCommentId")
	}
}

func TestCreateReplySendsParentCommentID(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK,
		`{"id":"rpl_1","author":"user-1","text":"yo","createdAt":"2026-03-14T10:01:00Z"}`)
	c := New(srv.URL, "")

	got, err := c.CreateReply(context.Background(), "cp1", "cmt_1", "yo")
	if err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}
	if got.ID != "rpl_1" {
		t.Errorf("unexpected reply: %+v", got)
	}
	if rec.body["parentCommentId"] != "cmt_1" {
		t.Errorf("parentCommentId missing: %v", rec.body)
	}
	if rec.auth != "" {
		t.Errorf("no token configured but Authorization sent: %q", rec.auth)
	}
}

func TestUpdateReplyCarriesBothIDs(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK,
		`{"id":"rpl_1","author":"user-1","text":"edited","createdAt":"2026-03-14T10:01:00Z","editedAt":"2026-03-14T10:05:00Z"}`)
	c := New(srv.URL, "")

	got, err := c.UpdateReply(context.Background(), "cp1", "cmt_1", "rpl_1", "edited")
	if err != nil {
		t.Fatalf("UpdateReply failed: %v", err)
	}
	if got.EditedAt == nil {
		t.Error("editedAt not decoded")
	}
	if rec.method != http.MethodPut {
		t.Errorf("expected PUT, got %s", rec.method)
	}
	if rec.body["commentId"] != "cmt_1" || rec.body["replyId"] != "rpl_1" {
		t.Errorf("unexpected body: %v", rec.body)
	}
}

func TestDeleteCommentSendsBody(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusNoContent, "")
	c := New(srv.URL, "")

	if err := c.DeleteComment(context.Background(), "cp1", "cmt_1"); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if rec.method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", rec.method)
	}
	if rec.body["commentId"] != "cmt_1" {
		t.Errorf("unexpected body: %v", rec.body)
	}
}

func TestNonSuccessStatusReturnsStatusError(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusForbidden, `{"error":"nope"}`)
	c := New(srv.URL, "")

	_, err := c.CreateComment(context.Background(), "cp1", "hi")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("unexpected status: %d", statusErr.StatusCode)
	}
}

func TestRequestHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	c := New(srv.URL, "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.CreateComment(ctx, "cp1", "hi"); err == nil {
		t.Fatal("expected context deadline error, got nil")
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusNoContent, "")
	c := New(srv.URL+"/", "")
	if err := c.DeleteComment(context.Background(), "cp1", "cmt_1"); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if rec.path != "/complaints/cp1/comment" {
		t.Errorf("double slash in path: %s", rec.path)
	}
}
