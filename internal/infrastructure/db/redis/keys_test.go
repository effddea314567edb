package redis

import (
	"testing"
	"time"
)

func TestDedupKey(t *testing.T) {
	ts := time.Date(2025, 5, 16, 9, 0, 0, 0, time.UTC)
	got := dedupKey("m1", ts)
	want := "dedup:machine:m1:1747386000"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if dedupKey("m1", ts.Add(500*time.Millisecond)) != got {
		t.Fatalf("sub-second offsets must map to the same key")
	}
	if dedupKey("m2", ts) == got {
		t.Fatalf("different machines must not share a key")
	}
}

func TestRevokedKey(t *testing.T) {
	if got := revokedKey("abc"); got != "revoked:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}
