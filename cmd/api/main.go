package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/task-team-service/internal/api/http"
	"github.com/spec-kit/task-team-service/internal/api/http/handlers"
	"github.com/spec-kit/task-team-service/internal/auth"
	"github.com/spec-kit/task-team-service/internal/config"
	"github.com/spec-kit/task-team-service/internal/events"
	"github.com/spec-kit/task-team-service/internal/observability"
	"github.com/spec-kit/task-team-service/internal/persistence"
	"github.com/spec-kit/task-team-service/internal/repository"
	"github.com/spec-kit/task-team-service/internal/service"
	"github.com/spec-kit/task-team-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readiness := map[string]handlers.Pinger{}
	var uows repository.UnitOfWorkFactory
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		readiness["postgres"] = pg

		reset := cfg.App.IsDevelopment()
		if reset || cfg.Database.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, reset, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		uows = repository.NewPostgresUnitOfWorkFactory(pg.Pool)
	default:
		logger.Warn("using in-memory storage; data is lost on restart")
		uows = repository.NewMemoryUnitOfWorkFactory(repository.NewMemoryDB())
	}

	if err := persistence.NewSeeder(uows, cfg.Auth.BcryptCost, cfg.Seed.DemoData, logger).Seed(ctx); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	if redis != nil {
		defer redis.Close()
		readiness["redis"] = redis
		events.NewRedisPublisher(redis.Client, cfg.Redis.EventsChannel).Attach(dispatcher)
	}

	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, metrics))

	tokens := auth.NewTokenManager(cfg.Auth.JWTKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(uows, tokens)
	taskService := service.NewTaskService(service.TaskDependencies{
		UnitOfWorks: uows,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	teamService := service.NewTeamService(uows, nil)
	userService := service.NewUserService(service.UserDependencies{
		UnitOfWorks: uows,
		Identity:    cfg.Identity,
		BcryptCost:  cfg.Auth.BcryptCost,
	})

	overdue, err := worker.NewOverdueWorker(cfg.Worker.OverdueCron, taskService, logger)
	if err != nil {
		logger.Fatal("failed to schedule overdue worker", zap.Error(err))
	}
	overdue.Start()

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth:               handlers.NewAuthHandler(authService),
		Tasks:              handlers.NewTasksHandler(taskService),
		Teams:              handlers.NewTeamsHandler(teamService),
		Users:              handlers.NewUsersHandler(userService),
		AuthMiddleware:     auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:            metrics,
		Logger:             logger,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Database.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	overdue.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
