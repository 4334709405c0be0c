// Package identity maps raw author references to display identities.
// Every renderer of a thread needs the same mapping, so it lives here
// once instead of in each screen.
package identity

import (
	"sync"

	"dwellfix/threads/internal/thread"
)

const (
	// UnknownName is rendered when a reference cannot be resolved.
	UnknownName = "Unknown"
	// DefaultAvatarURL is the placeholder avatar for unresolved authors.
	DefaultAvatarURL = "/assets/avatar-placeholder.png"
	// AdminDisplayName is the single shared admin identity. The original
	// author's own profile is not preserved for admin comments, only the
	// role; see the resolver tests for the avatar behavior that follows.
	AdminDisplayName = "Admin"

	BadgeAdmin    = "admin"
	BadgeResident = "resident"
)

// Actor is the current viewing session's own cached profile.
type Actor struct {
	ID        string
	Name      string
	AvatarURL string
	IsAdmin   bool
}

// Identity is what renderers display for an author.
type Identity struct {
	ID          string
	DisplayName string
	AvatarURL   string
	RoleBadge   string
}

// Resolver resolves author references, memoizing per (ref, actor) pair
// so equal inputs yield the identical Identity value and downstream
// renderers can skip re-renders.
type Resolver struct {
	mu    sync.Mutex
	cache map[string]Identity
}

func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]Identity)}
}

// Resolve maps a reference to a display identity for the given actor.
func (r *Resolver) Resolve(ref thread.AuthorRef, actor Actor) Identity {
	key := ref.Key() + "\x1e" + actor.ID + "\x1e" + actor.Name + "\x1e" + actor.AvatarURL
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.cache[key]; ok {
		return id
	}
	id := resolve(ref, actor)
	r.cache[key] = id
	return id
}

func resolve(ref thread.AuthorRef, actor Actor) Identity {
	switch ref.Kind {
	case thread.AuthorAdmin:
		// Admin comments always render as the shared Admin identity with
		// the current session's admin avatar, not the original author's.
		avatar := actor.AvatarURL
		if avatar == "" {
			avatar = DefaultAvatarURL
		}
		return Identity{DisplayName: AdminDisplayName, AvatarURL: avatar, RoleBadge: BadgeAdmin}
	case thread.AuthorResident:
		name := ref.Name
		if name == "" {
			name = UnknownName
		}
		avatar := ref.AvatarURL
		if avatar == "" {
			avatar = DefaultAvatarURL
		}
		return Identity{ID: ref.ID, DisplayName: name, AvatarURL: avatar, RoleBadge: BadgeResident}
	case thread.AuthorResidentID:
		if ref.ID != "" && ref.ID == actor.ID {
			avatar := actor.AvatarURL
			if avatar == "" {
				avatar = DefaultAvatarURL
			}
			return Identity{ID: actor.ID, DisplayName: actor.Name, AvatarURL: avatar, RoleBadge: BadgeResident}
		}
		return Identity{ID: ref.ID, DisplayName: UnknownName, AvatarURL: DefaultAvatarURL, RoleBadge: BadgeResident}
	}
	return Identity{DisplayName: UnknownName, AvatarURL: DefaultAvatarURL, RoleBadge: BadgeResident}
}
