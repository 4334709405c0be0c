// Package thread holds the in-memory comment tree for one complaint and
// the pure operations over it. Nothing in this package performs I/O.
package thread

import "time"

// Comment is a top-level entry in a complaint's discussion.
type Comment struct {
	ID        string     `json:"id"`
	Author    AuthorRef  `json:"author"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	Replies   []Reply    `json:"replies,omitempty"`
}

// Reply is a second-level entry under exactly one parent Comment.
// Replies do not nest further.
type Reply struct {
	ID        string     `json:"id"`
	Author    AuthorRef  `json:"author"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

// Thread is the full discussion for one complaint. Comments keep
// insertion order; edits never reorder.
type Thread struct {
	ComplaintID string    `json:"complaintId"`
	Comments    []Comment `json:"comments"`
}

// Edited reports whether the comment has been edited at least once.
func (c Comment) Edited() bool { return c.EditedAt != nil }

// Edited reports whether the reply has been edited at least once.
func (r Reply) Edited() bool { return r.EditedAt != nil }
