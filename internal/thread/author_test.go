package thread

import (
	"encoding/json"
	"testing"
)

func TestAuthorRefDecodeBareID(t *testing.T) {
	var ref AuthorRef
	if err := json.Unmarshal([]byte(`"user-42"`), &ref); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ref.Kind != AuthorResidentID || ref.ID != "user-42" {
		t.Errorf("unexpected ref: %+v", ref)
	}
}

func TestAuthorRefDecodePopulatedObject(t *testing.T) {
	var ref AuthorRef
	raw := `{"id":"user-42","name":"Priya","avatarUrl":"https://cdn.example/p.png"}`
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ref.Kind != AuthorResident || ref.Name != "Priya" || ref.AvatarURL == "" {
		t.Errorf("unexpected ref: %+v", ref)
	}
}

func TestAuthorRefDecodeAdminSentinel(t *testing.T) {
	var ref AuthorRef
	if err := json.Unmarshal([]byte(`{"role":"admin"}`), &ref); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ref.Kind != AuthorAdmin {
		t.Errorf("expected admin kind, got %+v", ref)
	}
}

func TestAuthorRefDecodeNullAndEmpty(t *testing.T) {
	for _, raw := range []string{"null", "{}"} {
		var ref AuthorRef
		if err := json.Unmarshal([]byte(raw), &ref); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if ref.Kind != AuthorUnknown {
			t.Errorf("%s: expected unknown kind, got %+v", raw, ref)
		}
	}
}

func TestAuthorRefRoundTrip(t *testing.T) {
	refs := []AuthorRef{
		ResidentIDRef("user-1"),
		ResidentRef("user-2", "Sam", "https://cdn.example/s.png"),
		AdminRef(),
	}
	for _, ref := range refs {
		data, err := json.Marshal(ref)
		if err != nil {
			t.Fatalf("marshal %+v: %v", ref, err)
		}
		var back AuthorRef
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back.Kind != ref.Kind || back.ID != ref.ID {
			t.Errorf("round trip changed ref: %+v -> %+v", ref, back)
		}
	}
}

func TestAuthorRefKeyDistinguishesKinds(t *testing.T) {
	a := ResidentIDRef("x").Key()
	b := ResidentRef("x", "X", "").Key()
	c := AdminRef().Key()
	if a == b || b == c || a == c {
		t.Errorf("keys collide: %q %q %q", a, b, c)
	}
}
