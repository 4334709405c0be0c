// Package restapi wraps the complaint service's comment endpoints. The
// transport contract is fixed by the backend; this client only shapes
// requests and decodes responses.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"dwellfix/threads/internal/thread"
)

// Client talks to the complaint service REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client for the given base URL. A bearer token may be
// empty for cookie-authenticated deployments.
func New(baseURL, token string) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("complaint api returned status %d: %s", e.StatusCode, e.Body)
}

type commentBody struct {
	Text            string `json:"text"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
	CommentID       string `json:"commentId,omitempty"`
	ReplyID         string `json:"replyId,omitempty"`
}

// CreateComment posts a new top-level comment and returns the
// authoritative copy (server id and timestamps).
func (c *Client) CreateComment(ctx context.Context, complaintID, text string) (thread.Comment, error) {
	var out thread.Comment
	err := c.do(ctx, http.MethodPost, complaintID, commentBody{Text: text}, &out)
	if err != nil {
		return thread.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return out, nil
}

// CreateReply posts a new reply under the given parent comment.
func (c *Client) CreateReply(ctx context.Context, complaintID, parentCommentID, text string) (thread.Reply, error) {
	var out thread.Reply
	err := c.do(ctx, http.MethodPost, complaintID, commentBody{Text: text, ParentCommentID: parentCommentID}, &out)
	if err != nil {
		return thread.Reply{}, fmt.Errorf("create reply: %w", err)
	}
	return out, nil
}

// UpdateComment replaces a comment's text; the response carries the
// server-side editedAt.
func (c *Client) UpdateComment(ctx context.Context, complaintID, commentID, text string) (thread.Comment, error) {
	var out thread.Comment
	err := c.do(ctx, http.MethodPut, complaintID, commentBody{CommentID: commentID, Text: text}, &out)
	if err != nil {
		return thread.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return out, nil
}

// UpdateReply replaces a reply's text under the given comment.
func (c *Client) UpdateReply(ctx context.Context, complaintID, commentID, replyID, text string) (thread.Reply, error) {
	var out thread.Reply
	err := c.do(ctx, http.MethodPut, complaintID, commentBody{CommentID: commentID, ReplyID: replyID, Text: text}, &out)
	if err != nil {
		return thread.Reply{}, fmt.Errorf("update reply: %w", err)
	}
	return out, nil
}

// DeleteComment removes a comment and its replies.
func (c *Client) DeleteComment(ctx context.Context, complaintID, commentID string) error {
	if err := c.do(ctx, http.MethodDelete, complaintID, commentBody{CommentID: commentID}, nil); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// DeleteReply removes only the named reply under the named comment.
func (c *Client) DeleteReply(ctx context.Context, complaintID, commentID, replyID string) error {
	if err := c.do(ctx, http.MethodDelete, complaintID, commentBody{CommentID: commentID, ReplyID: replyID}, nil); err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, complaintID string, body commentBody, out any) error {
	requestURL := fmt.Sprintf("%s/complaints/%s/comment", c.baseURL, complaintID)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug().Str("method", method).Str("complaint", complaintID).Msg("complaint api request")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
