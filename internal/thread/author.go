package thread

import (
	"encoding/json"
	"strings"
)

// AuthorKind discriminates the shapes an author reference arrives in on
// the wire: a populated resident object, a bare resident id, or the
// admin marker. Renderers resolve the reference to a display identity;
// the store never denormalizes it.
type AuthorKind int

const (
	AuthorUnknown AuthorKind = iota
	AuthorResident
	AuthorResidentID
	AuthorAdmin
)

// AuthorRef is the tagged union over the three author shapes.
type AuthorRef struct {
	Kind      AuthorKind
	ID        string
	Name      string
	AvatarURL string
}

// ResidentRef builds a populated resident reference.
func ResidentRef(id, name, avatarURL string) AuthorRef {
	return AuthorRef{Kind: AuthorResident, ID: id, Name: name, AvatarURL: avatarURL}
}

// ResidentIDRef builds a bare-identifier reference.
func ResidentIDRef(id string) AuthorRef {
	return AuthorRef{Kind: AuthorResidentID, ID: id}
}

// AdminRef builds the admin sentinel reference.
func AdminRef() AuthorRef {
	return AuthorRef{Kind: AuthorAdmin}
}

// Key returns a stable cache key for the reference.
func (a AuthorRef) Key() string {
	switch a.Kind {
	case AuthorAdmin:
		return "admin"
	case AuthorResidentID:
		return "id:" + a.ID
	case AuthorResident:
		return strings.Join([]string{"resident", a.ID, a.Name, a.AvatarURL}, "\x1f")
	}
	return "unknown"
}

type authorWire struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Role      string `json:"role,omitempty"`
}

// MarshalJSON emits the wire shape matching the reference kind: a bare
// id string, an admin marker object, or a populated resident object.
func (a AuthorRef) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AuthorResidentID:
		return json.Marshal(a.ID)
	case AuthorAdmin:
		return json.Marshal(authorWire{Role: "admin"})
	default:
		return json.Marshal(authorWire{ID: a.ID, Name: a.Name, AvatarURL: a.AvatarURL})
	}
}

// UnmarshalJSON accepts the three shapes the backend emits. Anything
// unrecognized decodes to AuthorUnknown rather than failing, matching
// the tolerant handling of broadcast payloads.
func (a *AuthorRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*a = AuthorRef{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*a = ResidentIDRef(id)
		return nil
	}
	var w authorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if strings.EqualFold(w.Role, "admin") {
		*a = AdminRef()
		return nil
	}
	if w.ID == "" && w.Name == "" {
		*a = AuthorRef{}
		return nil
	}
	*a = ResidentRef(w.ID, w.Name, w.AvatarURL)
	return nil
}
