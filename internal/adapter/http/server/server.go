package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tanker-union/fleet-system/config"
	"github.com/tanker-union/fleet-system/internal/adapter/http/handler"
	"github.com/tanker-union/fleet-system/internal/adapter/http/middleware"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
)

const serviceName = "fleet"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health      *handler.Health
	auth        *handler.Auth
	driver      *handler.Driver
	assignment  *handler.Assignment
	trip        *handler.Trip
	report      *handler.Report
	updates     *handler.Updates
}

func New(
	cfg config.Config,
	authService handler.AuthService,
	tokenService handler.TokenService,
	rosterService handler.RosterService,
	assignmentService handler.AssignmentService,
	tripService handler.TripService,
	reportService handler.ReportService,
	updates *handler.Updates,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		health:     handler.NewHealth(serviceName, log),
		auth:       handler.NewAuth(authService, tokenService, log),
		driver:     handler.NewDriver(rosterService, log),
		assignment: handler.NewAssignment(assignmentService, log),
		trip:       handler.NewTrip(tripService, log),
		report:     handler.NewReport(reportService, log),
		updates:    updates,
	}

	mid := middleware.NewMiddleware(authService, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		cfg:    cfg,
		log:    log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(serviceName)(a.m.Logging(a.m.Auth(a.mux)))))
}
