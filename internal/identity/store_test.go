package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xonyis/triman/internal/game"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triman", "identity.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.Lookup("ROOM1"); ok {
		t.Fatal("fresh store should be empty")
	}

	p := game.Player{ID: "p1", Name: "Alice"}
	if err := s.Remember("ROOM1", p); err != nil {
		t.Fatalf("remember: %v", err)
	}

	// A second Open must see what the first one saved.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := s2.Lookup("ROOM1")
	if !ok || got != p {
		t.Fatalf("expected %+v after reload, got %+v (ok=%v)", p, got, ok)
	}

	if err := s2.Forget("ROOM1"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, ok := s2.Lookup("ROOM1"); ok {
		t.Fatal("forget should drop the record")
	}
}

func TestStoreToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open should not fail on corrupt content: %v", err)
	}
	if _, ok := s.Lookup("ROOM1"); ok {
		t.Fatal("corrupt store should start empty")
	}
}
