package thread

import "time"

// The operations below are pure: each returns a new Thread snapshot and
// leaves the receiver untouched. Unmatched targets are silent no-ops —
// the caller cannot distinguish "already applied" from "never existed",
// and both count as success under at-least-once broadcast delivery.

// HasComment reports whether a comment with the given id exists.
func (t Thread) HasComment(id string) bool {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return true
		}
	}
	return false
}

// Comment returns the comment with the given id, if present.
func (t Thread) Comment(id string) (Comment, bool) {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return t.Comments[i], true
		}
	}
	return Comment{}, false
}

// Reply returns the reply with the given id under the given comment.
func (t Thread) Reply(commentID, replyID string) (Reply, bool) {
	c, ok := t.Comment(commentID)
	if !ok {
		return Reply{}, false
	}
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return c.Replies[i], true
		}
	}
	return Reply{}, false
}

// InsertComment appends the comment unless an entry with the same id is
// already present. Idempotent by id.
func (t Thread) InsertComment(c Comment) Thread {
	if t.HasComment(c.ID) {
		return t
	}
	out := t
	out.Comments = append(append([]Comment(nil), t.Comments...), c)
	return out
}

// InsertReply appends the reply under the matching parent comment.
// No-op when the parent is unknown or the reply id already exists there.
func (t Thread) InsertReply(parentCommentID string, r Reply) Thread {
	for i := range t.Comments {
		if t.Comments[i].ID != parentCommentID {
			continue
		}
		for j := range t.Comments[i].Replies {
			if t.Comments[i].Replies[j].ID == r.ID {
				return t
			}
		}
		out := t
		out.Comments = append([]Comment(nil), t.Comments...)
		parent := out.Comments[i]
		parent.Replies = append(append([]Reply(nil), parent.Replies...), r)
		out.Comments[i] = parent
		return out
	}
	return t
}

// UpdateText replaces the text of the comment or reply with the given
// id, searching both tree levels, and stamps editedAt. No-op when the
// id is not found.
func (t Thread) UpdateText(targetID, text string, editedAt time.Time) Thread {
	return t.SetText(targetID, text, &editedAt)
}

// SetText is UpdateText with an explicit editedAt pointer; a nil
// editedAt clears the edited marker. Rollback paths use it to restore
// a pre-edit entry exactly.
func (t Thread) SetText(targetID, text string, editedAt *time.Time) Thread {
	for i := range t.Comments {
		if t.Comments[i].ID == targetID {
			out := t
			out.Comments = append([]Comment(nil), t.Comments...)
			c := out.Comments[i]
			c.Text = text
			c.EditedAt = editedAt
			out.Comments[i] = c
			return out
		}
		for j := range t.Comments[i].Replies {
			if t.Comments[i].Replies[j].ID == targetID {
				out := t
				out.Comments = append([]Comment(nil), t.Comments...)
				parent := out.Comments[i]
				parent.Replies = append([]Reply(nil), parent.Replies...)
				r := parent.Replies[j]
				r.Text = text
				r.EditedAt = editedAt
				parent.Replies[j] = r
				out.Comments[i] = parent
				return out
			}
		}
	}
	return t
}

// Remove deletes the comment with the given id along with its replies.
func (t Thread) Remove(commentID string) Thread {
	for i := range t.Comments {
		if t.Comments[i].ID == commentID {
			out := t
			out.Comments = append(append([]Comment(nil), t.Comments[:i]...), t.Comments[i+1:]...)
			return out
		}
	}
	return t
}

// RemoveReply deletes only the named reply under the named comment.
func (t Thread) RemoveReply(commentID, replyID string) Thread {
	for i := range t.Comments {
		if t.Comments[i].ID != commentID {
			continue
		}
		for j := range t.Comments[i].Replies {
			if t.Comments[i].Replies[j].ID == replyID {
				out := t
				out.Comments = append([]Comment(nil), t.Comments...)
				parent := out.Comments[i]
				parent.Replies = append(append([]Reply(nil), parent.Replies[:j]...), parent.Replies[j+1:]...)
				out.Comments[i] = parent
				return out
			}
		}
		return t
	}
	return t
}

// ReplaceComment swaps the placeholder comment for the authoritative
// server copy, keeping its position. When the authoritative id is
// already present (its broadcast echo arrived first) the placeholder is
// simply dropped, so the thread never holds both.
func (t Thread) ReplaceComment(placeholderID string, c Comment) Thread {
	if t.HasComment(c.ID) {
		return t.Remove(placeholderID)
	}
	for i := range t.Comments {
		if t.Comments[i].ID == placeholderID {
			out := t
			out.Comments = append([]Comment(nil), t.Comments...)
			out.Comments[i] = c
			return out
		}
	}
	return t.InsertComment(c)
}

// ReplaceReply is ReplaceComment for a reply under the given parent.
func (t Thread) ReplaceReply(parentCommentID, placeholderID string, r Reply) Thread {
	if _, ok := t.Reply(parentCommentID, r.ID); ok {
		return t.RemoveReply(parentCommentID, placeholderID)
	}
	for i := range t.Comments {
		if t.Comments[i].ID != parentCommentID {
			continue
		}
		for j := range t.Comments[i].Replies {
			if t.Comments[i].Replies[j].ID == placeholderID {
				out := t
				out.Comments = append([]Comment(nil), t.Comments...)
				parent := out.Comments[i]
				parent.Replies = append([]Reply(nil), parent.Replies...)
				parent.Replies[j] = r
				out.Comments[i] = parent
				return out
			}
		}
	}
	return t.InsertReply(parentCommentID, r)
}
