package validator

import "testing"

func TestCheck_RecordsFirstFailure(t *testing.T) {
	v := New()
	v.Check(true, "name", "must be provided")
	if !v.Valid() {
		t.Fatalf("no failed checks, validator must be valid")
	}

	v.Check(false, "name", "must be provided")
	v.Check(false, "name", "second message")
	if v.Valid() {
		t.Fatalf("failed check must make validator invalid")
	}
	if got := v.Errors["name"]; got != "must be provided" {
		t.Fatalf("expected first message to win, got %q", got)
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("ACCEPTED", "ACCEPTED", "DECLINED") {
		t.Fatalf("ACCEPTED should be permitted")
	}
	if PermittedValue("COMPLETED", "ACCEPTED", "DECLINED") {
		t.Fatalf("COMPLETED should not be permitted")
	}
}
