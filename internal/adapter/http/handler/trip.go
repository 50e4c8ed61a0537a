package handler

import (
	"context"
	"net/http"

	"github.com/tanker-union/fleet-system/internal/adapter/http/handler/dto"
	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/uuid"
	"github.com/tanker-union/fleet-system/pkg/validator"
)

type TripService interface {
	Respond(ctx context.Context, tripID uuid.UUID, decision types.TripDecision) (*models.Trip, error)
	Complete(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	List(ctx context.Context, driverID *uuid.UUID) ([]models.Trip, error)
	ListToday(ctx context.Context) ([]models.Trip, error)
}

type Trip struct {
	trips TripService
	l     logger.Logger
}

func NewTrip(trips TripService, l logger.Logger) *Trip {
	return &Trip{
		trips: trips,
		l:     l,
	}
}

// Respond godoc
// @Summary      Answer a pending trip
// @Description  The assigned driver accepts or declines; accepting bumps their monthly counter
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        trip_id path string true "Trip ID"
// @Param        request body dto.RespondTripRequest true "Decision"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  map[string]string "trip already answered"
// @Security     BearerAuth
// @Router       /trips/{trip_id}/respond [post]
func (h *Trip) Respond(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "respond_trip")

	id, err := uuid.Parse(r.PathValue("trip_id"))
	if err != nil {
		badRequestResponse(w, "invalid trip id")
		return
	}

	req := &dto.RespondTripRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRespondTrip(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	trip, err := h.trips.Respond(ctx, id, req.ToDecision())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to respond to trip", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"trip": trip}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Complete godoc
// @Summary      Mark an accepted trip as done
// @Tags         Trips
// @Produce      json
// @Param        trip_id path string true "Trip ID"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /trips/{trip_id}/complete [post]
func (h *Trip) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "complete_trip")

	id, err := uuid.Parse(r.PathValue("trip_id"))
	if err != nil {
		badRequestResponse(w, "invalid trip id")
		return
	}

	trip, err := h.trips.Complete(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to complete trip", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"trip": trip}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// List godoc
// @Summary      List trips
// @Description  Drivers see their own trips; admins see everything and may filter by driver
// @Tags         Trips
// @Produce      json
// @Param        driver_id query string false "Filter by driver (admin only)"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /trips [get]
func (h *Trip) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_trips")

	var driverID *uuid.UUID
	if idStr := r.URL.Query().Get("driver_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			badRequestResponse(w, "invalid driver id")
			return
		}
		driverID = &id
	}

	trips, err := h.trips.List(ctx, driverID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list trips", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"trips": trips}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListToday godoc
// @Summary      Today's dispatch board
// @Tags         Trips
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /trips/today [get]
func (h *Trip) ListToday(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_trips_today")

	trips, err := h.trips.ListToday(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list today's trips", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"trips": trips}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
