package passhash

import (
	"strings"
	"testing"
)

// Low iteration count keeps the test fast; the KDF shape is identical.
const testIters = 1_000

func TestHashAndVerify(t *testing.T) {
	enc, err := HashPasswordWithIters("correct horse", testIters)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(enc, "pbkdf2_sha256$") {
		t.Fatalf("unexpected encoding prefix: %s", enc)
	}

	ok, err := VerifyPassword("correct horse", enc)
	if err != nil || !ok {
		t.Fatalf("verify of correct password failed: ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong horse", enc)
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if ok {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHash_SaltVaries(t *testing.T) {
	a, _ := HashPasswordWithIters("pw", testIters)
	b, _ := HashPasswordWithIters("pw", testIters)
	if a == b {
		t.Fatalf("two hashes of the same password must differ (random salt)")
	}
}

func TestVerify_MalformedInput(t *testing.T) {
	for _, enc := range []string{
		"",
		"bcrypt$whatever",
		"pbkdf2_sha256$abc$salt$dk",
		"pbkdf2_sha256$1000$!!$!!",
	} {
		if ok, err := VerifyPassword("pw", enc); err == nil || ok {
			t.Fatalf("expected error for %q, got ok=%v err=%v", enc, ok, err)
		}
	}
}
