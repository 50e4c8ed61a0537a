package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
)

type ReportService interface {
	Overview(ctx context.Context) (*models.FleetOverview, error)
	Daily(ctx context.Context, date time.Time) (*models.DailyReport, error)
	Monthly(ctx context.Context) (*models.MonthlyReport, error)
	ExportDaily(ctx context.Context, date time.Time) ([]byte, error)
	ExportMonthly(ctx context.Context) ([]byte, error)
}

type Report struct {
	reports ReportService
	l       logger.Logger
}

func NewReport(reports ReportService, l logger.Logger) *Report {
	return &Report{
		reports: reports,
		l:       l,
	}
}

// reportDate reads an optional ?date= query, defaulting to today.
func reportDate(r *http.Request) (time.Time, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return time.Now(), true
	}

	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// Overview godoc
// @Summary      Fleet overview
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /reports/overview [get]
func (h *Report) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "report_overview")

	overview, err := h.reports.Overview(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build overview", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"overview": overview}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Daily godoc
// @Summary      Daily report
// @Tags         Reports
// @Produce      json
// @Param        date query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /reports/daily [get]
func (h *Report) Daily(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "report_daily")

	date, ok := reportDate(r)
	if !ok {
		badRequestResponse(w, "date must be in YYYY-MM-DD format")
		return
	}

	report, err := h.reports.Daily(ctx, date)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build daily report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"report": report}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Monthly godoc
// @Summary      Monthly report
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Security     BearerAuth
// @Router       /reports/monthly [get]
func (h *Report) Monthly(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "report_monthly")

	report, err := h.reports.Monthly(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build monthly report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"report": report}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ExportDaily godoc
// @Summary      Download the daily report
// @Tags         Reports
// @Produce      json
// @Param        date query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success      200  {string}  string
// @Security     BearerAuth
// @Router       /reports/daily/export [get]
func (h *Report) ExportDaily(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "report_export_daily")

	date, ok := reportDate(r)
	if !ok {
		badRequestResponse(w, "date must be in YYYY-MM-DD format")
		return
	}

	payload, err := h.reports.ExportDaily(ctx, date)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to export daily report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="daily-report.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// ExportMonthly godoc
// @Summary      Download the monthly report
// @Tags         Reports
// @Produce      json
// @Success      200  {string}  string
// @Security     BearerAuth
// @Router       /reports/monthly/export [get]
func (h *Report) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "report_export_monthly")

	payload, err := h.reports.ExportMonthly(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to export monthly report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="monthly-report.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
