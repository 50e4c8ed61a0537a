package dto

import (
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/validator"
)

type RespondTripRequest struct {
	Decision string `json:"decision"`
}

func (r *RespondTripRequest) ToDecision() types.TripDecision {
	return types.TripDecision(r.Decision)
}

func ValidateRespondTrip(v *validator.Validator, req *RespondTripRequest) {
	v.Check(req.Decision != "", "decision", "must be provided")
	v.Check(validator.PermittedValue(req.Decision,
		string(types.DecisionAccepted), string(types.DecisionDeclined)),
		"decision", "must be ACCEPTED or DECLINED")
}
