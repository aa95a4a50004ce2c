package cart

import (
	"testing"

	"github.com/google/uuid"
)

func TestStoreAddIssuesToken(t *testing.T) {
	s := NewStore()

	tok, items := s.Add(uuid.Nil, 1, 2)
	if tok == uuid.Nil {
		t.Fatal("expected a fresh token for the zero UUID")
	}
	if items["1"] != 2 {
		t.Errorf("expected quantity 2 for item 1, got %d", items["1"])
	}
}

func TestStoreAddAccumulates(t *testing.T) {
	s := NewStore()

	tok, _ := s.Add(uuid.Nil, 1, 2)
	tok2, items := s.Add(tok, 1, 3)

	if tok2 != tok {
		t.Fatal("expected token to be stable across adds")
	}
	if items["1"] != 5 {
		t.Errorf("expected accumulated quantity 5, got %d", items["1"])
	}
}

func TestStoreGetUnknownToken(t *testing.T) {
	s := NewStore()

	items := s.Get(uuid.New())
	if len(items) != 0 {
		t.Errorf("expected empty cart for unknown token, got %v", items)
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore()

	tok, items := s.Add(uuid.Nil, 1, 2)
	items["1"] = 99 // mutating the snapshot must not touch the store

	if got := s.Get(tok); got["1"] != 2 {
		t.Errorf("expected stored quantity 2, got %d", got["1"])
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()

	tok, _ := s.Add(uuid.Nil, 1, 2)
	s.Clear(tok)

	if items := s.Get(tok); len(items) != 0 {
		t.Errorf("expected empty cart after clear, got %v", items)
	}
}
