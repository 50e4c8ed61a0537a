package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	errorResponse(rec, 401, "authorization required")

	if rec.Code != 401 {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["error"] != "authorization required" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}
