package dto

import (
	"testing"

	"github.com/tanker-union/fleet-system/pkg/validator"
)

func TestValidateMonthlyTarget(t *testing.T) {
	tests := []struct {
		name   string
		target int
		valid  bool
	}{
		{"zero rejected", 0, false},
		{"negative rejected", -3, false},
		{"minimum of one", 1, true},
		{"typical target", 20, true},
		{"upper bound", 1000, true},
		{"over upper bound", 1001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateMonthlyTarget(v, &SetMonthlyTargetRequest{Target: tt.target})
			if v.Valid() != tt.valid {
				t.Fatalf("target %d: valid = %v, want %v (errors: %v)", tt.target, v.Valid(), tt.valid, v.Errors)
			}
		})
	}
}
