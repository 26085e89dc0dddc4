package helper

import "testing"

func TestHash8(t *testing.T) {
	a := Hash8("john@example.com")
	if len(a) != 16 {
		t.Fatalf("len=%d, want 16", len(a))
	}
	if a != Hash8("john@example.com") {
		t.Fatal("not stable")
	}
	if a == Hash8("jane@example.com") {
		t.Fatal("collision on distinct input")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  John@Example.COM "); got != "john@example.com" {
		t.Fatalf("got %q", got)
	}
}
