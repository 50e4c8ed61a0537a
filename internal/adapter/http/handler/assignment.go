package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/tanker-union/fleet-system/internal/adapter/http/handler/dto"
	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/validator"
)

type AssignmentService interface {
	AssignTrips(ctx context.Context, companyName string, tripsRequested, vehiclesNeeded int, date time.Time) (*models.AssignmentResult, error)
	ListCompanies(ctx context.Context) ([]models.CompanyRequest, error)
	ListCompaniesByDate(ctx context.Context, date time.Time) ([]models.CompanyRequest, error)
}

type Assignment struct {
	assignments AssignmentService
	l           logger.Logger
}

func NewAssignment(assignments AssignmentService, l logger.Logger) *Assignment {
	return &Assignment{
		assignments: assignments,
		l:           l,
	}
}

// Assign godoc
// @Summary      Assign trips to a company
// @Description  Records the company's trip ask and creates one pending trip per needed vehicle, picking drivers from the rotation
// @Tags         Assignments
// @Accept       json
// @Produce      json
// @Param        request body dto.AssignTripsRequest true "Company request"
// @Success      201  {object}  map[string]any
// @Failure      409  {object}  map[string]string "not enough eligible drivers"
// @Security     BearerAuth
// @Router       /assignments [post]
func (h *Assignment) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "assign_trips")

	req := &dto.AssignTripsRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Error(ctx, "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateAssignTrips(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	date, err := req.AssignmentDate()
	if err != nil {
		badRequestResponse(w, "invalid date")
		return
	}

	result, err := h.assignments.AssignTrips(ctx, req.CompanyName, req.TripsRequested, req.VehiclesNeeded, date)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to assign trips", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"assignment": result}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListCompanies godoc
// @Summary      Recorded company requests
// @Tags         Assignments
// @Produce      json
// @Param        date query string false "Filter by date (YYYY-MM-DD)"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /companies [get]
func (h *Assignment) ListCompanies(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_companies")

	var (
		companies []models.CompanyRequest
		err       error
	)

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, parseErr := time.Parse(models.DateLayout, dateStr)
		if parseErr != nil {
			badRequestResponse(w, "date must be in YYYY-MM-DD format")
			return
		}
		companies, err = h.assignments.ListCompaniesByDate(ctx, date)
	} else {
		companies, err = h.assignments.ListCompanies(ctx)
	}

	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list companies", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"companies": companies}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
