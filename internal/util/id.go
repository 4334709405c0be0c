package util

import (
	"strings"

	"github.com/google/uuid"
)

const pendingPrefix = "pending_"

// NewPendingID returns a placeholder id for an optimistic insert. The
// server never echoes these; reconciliation swaps them for the
// authoritative id on the write response.
func NewPendingID() string {
	return pendingPrefix + uuid.NewString()
}

// IsPendingID reports whether the id is a local placeholder.
func IsPendingID(id string) bool {
	return strings.HasPrefix(id, pendingPrefix)
}
