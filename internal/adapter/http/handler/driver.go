package handler

import (
	"context"
	"net/http"

	"github.com/tanker-union/fleet-system/internal/adapter/http/handler/dto"
	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/uuid"
	"github.com/tanker-union/fleet-system/pkg/validator"
)

type RosterService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	Me(ctx context.Context) (*models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	SetOnline(ctx context.Context, id uuid.UUID, online bool) (*models.Driver, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Driver, error)
	SetMonthlyTarget(ctx context.Context, id uuid.UUID, target int) (*models.Driver, error)
	ResetMonth(ctx context.Context) (int, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type Driver struct {
	roster RosterService
	l      logger.Logger
}

func NewDriver(roster RosterService, l logger.Logger) *Driver {
	return &Driver{
		roster: roster,
		l:      l,
	}
}

// List godoc
// @Summary      Full roster
// @Tags         Drivers
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /drivers [get]
func (h *Driver) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_drivers")

	drivers, err := h.roster.List(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list drivers", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"drivers": drivers}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get godoc
// @Summary      One driver
// @Tags         Drivers
// @Produce      json
// @Param        driver_id path string true "Driver ID"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /drivers/{driver_id} [get]
func (h *Driver) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_driver")

	id, err := uuid.Parse(r.PathValue("driver_id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	driver, err := h.roster.Get(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": driver}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Me godoc
// @Summary      Own roster entry
// @Tags         Drivers
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /drivers/me [get]
func (h *Driver) Me(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_own_driver")

	driver, err := h.roster.Me(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get own driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": driver}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SetOnline godoc
// @Summary      Flip the online flag
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        driver_id path string true "Driver ID"
// @Param        request body dto.SetOnlineRequest true "Online flag"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /drivers/{driver_id}/online [post]
func (h *Driver) SetOnline(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_driver_online")

	id, err := uuid.Parse(r.PathValue("driver_id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	req := &dto.SetOnlineRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	driver, err := h.roster.SetOnline(ctx, id, req.Online)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set driver online flag", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": driver}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SetAvailability godoc
// @Summary      Flip the availability flag
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        driver_id path string true "Driver ID"
// @Param        request body dto.SetAvailabilityRequest true "Availability flag"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /drivers/{driver_id}/availability [post]
func (h *Driver) SetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_driver_availability")

	id, err := uuid.Parse(r.PathValue("driver_id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	req := &dto.SetAvailabilityRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	driver, err := h.roster.SetAvailability(ctx, id, req.Available)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set driver availability", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": driver}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SetMonthlyTarget godoc
// @Summary      Change the monthly trip goal
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        driver_id path string true "Driver ID"
// @Param        request body dto.SetMonthlyTargetRequest true "Target"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /drivers/{driver_id}/target [post]
func (h *Driver) SetMonthlyTarget(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_driver_monthly_target")

	id, err := uuid.Parse(r.PathValue("driver_id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	req := &dto.SetMonthlyTargetRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateMonthlyTarget(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	driver, err := h.roster.SetMonthlyTarget(ctx, id, req.Target)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set monthly target", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": driver}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ResetMonth godoc
// @Summary      Reset monthly counters
// @Description  Zeroes every driver's monthly trip counter
// @Tags         Drivers
// @Produce      json
// @Success      200  {object}  map[string]int
// @Security     BearerAuth
// @Router       /roster/reset-month [post]
func (h *Driver) ResetMonth(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "reset_month")

	count, err := h.roster.ResetMonth(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to reset monthly counters", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"drivers_reset": count}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Remove godoc
// @Summary      Remove a driver from the roster
// @Tags         Drivers
// @Param        driver_id path string true "Driver ID"
// @Success      204
// @Security     BearerAuth
// @Router       /drivers/{driver_id} [delete]
func (h *Driver) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "remove_driver")

	id, err := uuid.Parse(r.PathValue("driver_id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	if err := h.roster.Remove(ctx, id); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to remove driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
