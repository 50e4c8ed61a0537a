package uuid

import "testing"

func TestNew_Unique(t *testing.T) {
	if New() == New() {
		t.Fatalf("two generated uuids must not collide")
	}
}

func TestNew_VersionAndVariant(t *testing.T) {
	u := New()
	if u[6]>>4 != 4 {
		t.Fatalf("expected version 4, got %d", u[6]>>4)
	}
	if u[8]>>6 != 2 {
		t.Fatalf("expected RFC 4122 variant bits, got %b", u[8]>>6)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	u := New()
	parsed, err := Parse(u.String())
	if err != nil {
		t.Fatalf("parse of own string form failed: %v", err)
	}
	if parsed != u {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, u)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"",
		"not-a-uuid",
		"bdee37ab-47a2-4502-8b8a-35a6d1e8739",   // too short
		"bdee37ab47a245028b8a35a6d1e87395abcd",  // no dashes
		"zzee37ab-47a2-4502-8b8a-35a6d1e87395",  // bad hex
		"bdee37ab-47a2-4502-8b8a-35a6d1e87395x", // too long
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}
