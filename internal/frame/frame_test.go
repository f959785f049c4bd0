package frame

import "testing"

func TestThreadIDRoundTrip(t *testing.T) {
	id := ThreadID(42)
	got, err := ParseThreadID(id.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Fatalf("wanted %v, got %v", id, got)
	}
	if _, err := ParseThreadID("main"); err == nil {
		t.Fatal("expected an error for a non numeric id")
	}
}

func TestDefaultThreadName(t *testing.T) {
	if got := DefaultThreadName(3); got != "Thread: 3" {
		t.Fatalf("unexpected name %q", got)
	}
	if DefaultThreadName(3) == DefaultThreadName(4) {
		t.Fatal("expected distinct names per thread")
	}
}
