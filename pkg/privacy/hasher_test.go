package privacy

import "testing"

func TestHasherStableWithinInstance(t *testing.T) {
	hasher, err := NewHasher()
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}

	first := hasher.Hash("user-123")
	second := hasher.Hash("user-123")
	if first != second {
		t.Fatalf("same identifier hashed to %q and %q", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}

	if hasher.Hash("user-124") == first {
		t.Fatal("different identifiers produced the same digest")
	}
}

func TestHasherSaltSeparatesInstances(t *testing.T) {
	a, err := NewHasherWithSalt("salt-a")
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}
	b, err := NewHasherWithSalt("salt-b")
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}

	if a.Hash("user-123") == b.Hash("user-123") {
		t.Fatal("different salts produced the same digest")
	}
}

func TestHasherRejectsEmptySalt(t *testing.T) {
	if _, err := NewHasherWithSalt(""); err == nil {
		t.Fatal("expected error for empty salt")
	}
}
