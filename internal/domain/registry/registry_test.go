package registry

import (
	"errors"
	"testing"

	"approval-backend/internal/domain/approval"
)

type stubStore struct{ Store }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := New()
	reg.Register("activity", stubStore{})
	reg.Register("location", stubStore{})

	if _, err := reg.Store("activity"); err != nil {
		t.Fatalf("registered kind not found: %v", err)
	}
	if _, err := reg.Store("trip"); !errors.Is(err, approval.ErrUnknownEntityKind) {
		t.Fatalf("want ErrUnknownEntityKind, got %v", err)
	}

	kinds := reg.Kinds()
	if len(kinds) != 2 || kinds[0] != "activity" || kinds[1] != "location" {
		t.Fatalf("Kinds() = %v, want sorted [activity location]", kinds)
	}
}

func TestRegistry_OpenForNewKinds(t *testing.T) {
	reg := New()
	before := len(reg.Kinds())
	reg.Register("review", stubStore{})
	if len(reg.Kinds()) != before+1 {
		t.Fatal("registering a new kind must not require engine changes")
	}
	if _, err := reg.Store("review"); err != nil {
		t.Fatalf("new kind unresolvable: %v", err)
	}
}
