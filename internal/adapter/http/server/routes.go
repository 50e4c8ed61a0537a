package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tanker-union/fleet-system/internal/domain/types"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("/health", a.routes.health.HealthCheck)

	// Observability
	a.mux.Handle("/metrics", promhttp.Handler())
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler())

	a.setupAuthRoutes()
	a.setupRosterRoutes()
	a.setupAssignmentRoutes()
	a.setupTripRoutes()
	a.setupReportRoutes()

	// WebSocket stream of change events for dashboards
	a.mux.HandleFunc("GET /ws/updates", a.routes.updates.Subscribe)
}

func (a *API) setupAuthRoutes() {
	a.mux.HandleFunc("POST /auth/register", a.routes.auth.Register)
	a.mux.HandleFunc("POST /auth/login", a.routes.auth.Login)
	a.mux.HandleFunc("POST /auth/refresh", a.routes.auth.Refresh)
	a.mux.HandleFunc("POST /auth/logout", a.routes.auth.Logout)
	a.mux.HandleFunc("GET /auth/me", a.routes.auth.Profile)
}

func (a *API) setupRosterRoutes() {
	a.mux.Handle("GET /drivers", a.m.RequireRoles(a.routes.driver.List, types.RoleAdmin))
	a.mux.Handle("GET /drivers/me", a.m.RequireRoles(a.routes.driver.Me, types.RoleDriver, types.RoleAdmin))
	a.mux.Handle("GET /drivers/{driver_id}", a.m.RequireRoles(a.routes.driver.Get, types.RoleDriver, types.RoleAdmin))
	a.mux.Handle("POST /drivers/{driver_id}/online", a.m.RequireRoles(a.routes.driver.SetOnline, types.RoleDriver, types.RoleAdmin))
	a.mux.Handle("POST /drivers/{driver_id}/availability", a.m.RequireRoles(a.routes.driver.SetAvailability, types.RoleAdmin))
	a.mux.Handle("POST /drivers/{driver_id}/target", a.m.RequireRoles(a.routes.driver.SetMonthlyTarget, types.RoleAdmin))
	a.mux.Handle("DELETE /drivers/{driver_id}", a.m.RequireRoles(a.routes.driver.Remove, types.RoleAdmin))
	a.mux.Handle("POST /roster/reset-month", a.m.RequireRoles(a.routes.driver.ResetMonth, types.RoleAdmin))
}

func (a *API) setupAssignmentRoutes() {
	a.mux.Handle("POST /assignments", a.m.RequireRoles(a.routes.assignment.Assign, types.RoleAdmin))
	a.mux.Handle("GET /companies", a.m.RequireRoles(a.routes.assignment.ListCompanies, types.RoleAdmin))
}

func (a *API) setupTripRoutes() {
	a.mux.Handle("GET /trips", a.m.RequireRoles(a.routes.trip.List, types.RoleDriver, types.RoleAdmin))
	a.mux.Handle("GET /trips/today", a.m.RequireRoles(a.routes.trip.ListToday, types.RoleAdmin))
	a.mux.Handle("POST /trips/{trip_id}/respond", a.m.RequireRoles(a.routes.trip.Respond, types.RoleDriver, types.RoleAdmin))
	a.mux.Handle("POST /trips/{trip_id}/complete", a.m.RequireRoles(a.routes.trip.Complete, types.RoleAdmin))
}

func (a *API) setupReportRoutes() {
	a.mux.Handle("GET /reports/overview", a.m.RequireRoles(a.routes.report.Overview, types.RoleDriver, types.RoleAdmin))
	a.mux.Handle("GET /reports/daily", a.m.RequireRoles(a.routes.report.Daily, types.RoleAdmin))
	a.mux.Handle("GET /reports/monthly", a.m.RequireRoles(a.routes.report.Monthly, types.RoleAdmin))
	a.mux.Handle("GET /reports/daily/export", a.m.RequireRoles(a.routes.report.ExportDaily, types.RoleAdmin))
	a.mux.Handle("GET /reports/monthly/export", a.m.RequireRoles(a.routes.report.ExportMonthly, types.RoleAdmin))
}
