package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tanker-union/fleet-system/config"
	"github.com/tanker-union/fleet-system/internal/adapter/http/handler"
	"github.com/tanker-union/fleet-system/internal/adapter/http/server"
	repo "github.com/tanker-union/fleet-system/internal/adapter/postgres"
	rabbitAdapter "github.com/tanker-union/fleet-system/internal/adapter/rabbit"
	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/service/assignment"
	"github.com/tanker-union/fleet-system/internal/service/auth"
	"github.com/tanker-union/fleet-system/internal/service/report"
	"github.com/tanker-union/fleet-system/internal/service/roster"
	"github.com/tanker-union/fleet-system/internal/service/trip"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/postgres"
	"github.com/tanker-union/fleet-system/pkg/rabbit"
	"github.com/tanker-union/fleet-system/pkg/trm"
	"github.com/tanker-union/fleet-system/pkg/wshub"
)

type App struct {
	db       *postgres.PostgreDB
	broker   *rabbit.RabbitMQ
	consumer *rabbitAdapter.ChangeConsumer
	hub      *wshub.Hub
	api      *server.API

	cfg config.Config
	log logger.Logger
}

// NewApplication wires the whole service: store, broker, services, HTTP API.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	broker, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	// Repositories
	driverRepo := repo.NewDriverRepo(db.Pool)
	tripRepo := repo.NewTripRepo(db.Pool)
	companyRepo := repo.NewCompanyRepo(db.Pool)
	rotationRepo := repo.NewRotationRepo(db.Pool)
	userRepo := repo.NewUserRepo(db.Pool)
	refreshRepo := repo.NewRefreshTokenRepo(db.Pool)

	txManager := trm.New(db.Pool)

	// Messaging
	notifier := rabbitAdapter.NewChangeNotifier(broker, log)
	consumer := rabbitAdapter.NewChangeConsumer(broker, log)

	// Services
	rosterService := roster.NewService(driverRepo, refreshRepo, notifier, cfg.Roster, log)
	assignmentService := assignment.NewService(driverRepo, tripRepo, companyRepo, rotationRepo, notifier, txManager, log)
	tripService := trip.NewService(tripRepo, driverRepo, notifier, txManager, log)
	reportService := report.NewService(driverRepo, tripRepo, companyRepo, log)

	tokenService := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		userRepo,
		refreshRepo,
		txManager,
		cfg.Auth.RefreshTokenTTL,
		cfg.Auth.AccessTokenTTL,
		log,
	)
	authService := auth.NewAuthService(userRepo, refreshRepo, rosterService, tokenService, txManager, log)

	// WebSocket fan-out
	hub := wshub.New(log)
	updates := handler.NewUpdates(hub, log)

	api, err := server.New(
		cfg,
		authService,
		tokenService,
		rosterService,
		assignmentService,
		tripService,
		reportService,
		updates,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init http server: %w", err)
	}

	return &App{
		db:       db,
		broker:   broker,
		consumer: consumer,
		hub:      hub,
		api:      api,
		cfg:      cfg,
		log:      log,
	}, nil
}

// Run starts the HTTP server and the change event consumer, then blocks until
// a shutdown signal or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	a.api.Run(ctx, errCh)

	// Fan broker events out to connected websocket clients.
	go func() {
		if err := a.consumer.Consume(ctx, func(ctx context.Context, event models.ChangeEvent) {
			a.hub.Broadcast(event)
		}); err != nil {
			a.log.Error(ctx, "change consumer stopped", err)
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdownCh:
		a.log.Info(ctx, "received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		a.log.Error(ctx, "server failure", err)
	}

	return a.stop(ctx)
}

func (a *App) stop(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "app_stop")

	if err := a.api.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to stop http server", err)
	}

	a.hub.Close()

	if err := a.broker.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to close rabbitmq connection", err)
	}

	a.db.Pool.Close()

	a.log.Info(ctx, "application stopped")
	return nil
}
