package dto

import (
	"github.com/tanker-union/fleet-system/pkg/validator"
)

type SetOnlineRequest struct {
	Online bool `json:"online"`
}

type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

type SetMonthlyTargetRequest struct {
	Target int `json:"target"`
}

func ValidateMonthlyTarget(v *validator.Validator, req *SetMonthlyTargetRequest) {
	v.Check(req.Target >= 1, "target", "must be at least 1")
	v.Check(req.Target <= 1000, "target", "must not be more than 1000")
}
