// @title           Exes Food Network API
// @version         1.0
// @description     Machine data, accounts and kiosk telemetry for the Exes food donation network.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exes/food-network/internal/api"
	"github.com/exes/food-network/internal/core/ports"
	"github.com/exes/food-network/internal/core/service"
	"github.com/exes/food-network/internal/infrastructure/config"
	mongodb "github.com/exes/food-network/internal/infrastructure/db/mongo"
	redisdb "github.com/exes/food-network/internal/infrastructure/db/redis"
	"github.com/exes/food-network/internal/infrastructure/http/handlers"
	"github.com/exes/food-network/internal/infrastructure/messaging/natsclient"
	"github.com/exes/food-network/internal/infrastructure/queue"
	"github.com/exes/food-network/pkg/logger"
	"github.com/exes/food-network/pkg/tracing"

	_ "github.com/exes/food-network/docs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	bootLog := logger.New(logger.Options{Level: "info"})
	cfg := config.Load(bootLog)

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "food-network-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	shutdownTracing, err := tracing.Setup("food-network-api", cfg.Tracing.Enabled, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	userRepo := mongodb.NewAuthRepository(db)
	machineRepo := mongodb.NewMachineRepository(db)
	foodRepo := mongodb.NewFoodRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, machineRepo, foodRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create mongodb indexes")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	healthChecks := []handlers.DependencyCheck{
		handlers.MongoCheck(db),
		handlers.RedisCheck(rdb),
	}

	// --- NATS (optional) ---
	var publisher ports.StatusPublisher
	if cfg.NATS.URL != "" {
		nc, err := natsclient.Connect(cfg.NATS.URL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer nc.Drain()
		publisher = natsclient.NewPublisher(nc, cfg.NATS.Subject)
		healthChecks = append(healthChecks, handlers.NATSCheck(nc))
		log.Info().Str("subject", cfg.NATS.Subject).Msg("publishing machine status to nats")
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, redisdb.NewRevocationStore(rdb), cfg.JWTSecret, cfg.TokenTTL)
	if cfg.MachineAPIKey != "" {
		authService.WithMachineAuth(machineRepo, cfg.MachineAPIKey)
	} else {
		log.Warn().Msg("MACHINE_API_KEY not set; kiosk authentication disabled")
	}
	machineService := service.NewMachineService(machineRepo, foodRepo, userRepo, log)
	foodService := service.NewFoodService(machineRepo, foodRepo, log)
	telemetryService := service.NewTelemetryService(machineRepo, eventRepo, redisdb.NewDedupChecker(rdb, cfg.DedupWindow), publisher, log)

	// Heartbeats answered with 202 are drained before the stores are closed.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Workers, telemetryService, log)
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		Log:          log,
		Auth:         authService,
		Machines:     machineService,
		Food:         foodService,
		Dispatcher:   dispatcher,
		HealthChecks: healthChecks,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	dispatcher.Close()
	dispatcher.Wait()
	cancelWorkers()

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect mongodb")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}
	log.Info().Msg("server exited")
}
