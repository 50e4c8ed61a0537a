package hasher

import "testing"

func TestHash_Deterministic(t *testing.T) {
	in := "same input"
	h1 := Hash(in)
	h2 := Hash(in)
	if h1 != h2 {
		t.Fatalf("hash must be deterministic, got %s vs %s", h1, h2)
	}
}

func TestHash_DifferentInputs(t *testing.T) {
	if Hash("a") == Hash("b") {
		t.Fatalf("different inputs should not produce the same hash")
	}
}

func TestHash_KnownVector(t *testing.T) {
	// SHA-256("hello") per the standard test vectors.
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := Hash("hello")
	if got != want {
		t.Fatalf("unexpected hash: got %s want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	d := Hash("token")
	if !Verify("token", d) {
		t.Fatalf("verify must accept matching value")
	}
	if Verify("other", d) {
		t.Fatalf("verify must reject non-matching value")
	}
}
