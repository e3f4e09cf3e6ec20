package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/fleetd/internal/pkg/config"
	"github.com/fleetops/fleetd/internal/pkg/database"
	"github.com/fleetops/fleetd/internal/pkg/health"
	"github.com/fleetops/fleetd/internal/pkg/logger"
	"github.com/fleetops/fleetd/internal/pkg/middleware"
	nsqpkg "github.com/fleetops/fleetd/internal/pkg/nsq"
	fleetGateway "github.com/fleetops/fleetd/services/fleet/gateway"
	fleetHandler "github.com/fleetops/fleetd/services/fleet/handler"
	fleetRepository "github.com/fleetops/fleetd/services/fleet/repository"
	fleetUsecase "github.com/fleetops/fleetd/services/fleet/usecase"
	fuelHandler "github.com/fleetops/fleetd/services/fuel/handler"
	fuelRepository "github.com/fleetops/fleetd/services/fuel/repository"
	fuelUsecase "github.com/fleetops/fleetd/services/fuel/usecase"
	maintenanceGateway "github.com/fleetops/fleetd/services/maintenance/gateway"
	maintenanceHandler "github.com/fleetops/fleetd/services/maintenance/handler"
	maintenanceRepository "github.com/fleetops/fleetd/services/maintenance/repository"
	maintenanceUsecase "github.com/fleetops/fleetd/services/maintenance/usecase"
	registryRepository "github.com/fleetops/fleetd/services/registry/repository"
	registryUsecase "github.com/fleetops/fleetd/services/registry/usecase"
	routingHandler "github.com/fleetops/fleetd/services/routing/handler"
	routingUsecase "github.com/fleetops/fleetd/services/routing/usecase"
	tripGateway "github.com/fleetops/fleetd/services/trips/gateway"
	tripHandler "github.com/fleetops/fleetd/services/trips/handler"
	tripRepository "github.com/fleetops/fleetd/services/trips/repository"
	tripUsecase "github.com/fleetops/fleetd/services/trips/usecase"
)

func main() {
	appName := "fleetd"
	configPath := config.GetEnv("CONFIG_PATH", "config/fleetd.env")
	configs := config.InitConfig(configPath)

	appLogger, err := logger.NewAppLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Close()

	appLogger.WithFields(logrus.Fields{
		"app":         appName,
		"version":     configs.App.Version,
		"environment": configs.App.Environment,
	}).Info("Starting application")

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}
	defer postgresClient.Close()

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize NSQ producer, events degrade to no-ops when publishing
	// is disabled or the daemon is unreachable
	var producer nsqpkg.Publisher
	if configs.NSQ.PublishEnabled {
		p, err := nsqpkg.NewProducer(configs.NSQ.Address)
		if err != nil {
			appLogger.WithError(err).Warn("NSQ unreachable, events will be dropped")
			producer = nsqpkg.NoopProducer{}
		} else {
			producer = p
		}
	} else {
		producer = nsqpkg.NoopProducer{}
	}
	defer producer.Stop()

	db := postgresClient.GetDB()

	// Initialize repositories
	sequenceRepo := registryRepository.NewSequenceRepository(configs, db)
	fleetRepo := fleetRepository.NewFleetRepository(configs, db)
	tripRepo := tripRepository.NewTripRepository(configs, db)
	positionRepo := tripRepository.NewPositionRepository(configs, redisClient)
	maintenanceRepo := maintenanceRepository.NewMaintenanceRepository(configs, db)
	fuelRepo := fuelRepository.NewFuelRepository(configs, db)

	// Initialize gateways
	fleetGW := fleetGateway.NewFleetGW(producer)
	tripGW := tripGateway.NewTripGW(producer)
	maintenanceGW := maintenanceGateway.NewMaintenanceGW(producer)

	// Initialize usecases
	registryUC := registryUsecase.NewRegistryUC(configs, sequenceRepo)
	fleetUC := fleetUsecase.NewFleetUC(configs, appLogger.Logger, fleetRepo, registryUC, fleetGW)
	tripUC := tripUsecase.NewTripUC(configs, appLogger.Logger, tripRepo, positionRepo, registryUC, tripGW)
	maintenanceUC := maintenanceUsecase.NewMaintenanceUC(configs, appLogger.Logger, maintenanceRepo, fleetRepo, registryUC, maintenanceGW)
	fuelUC := fuelUsecase.NewFuelUC(configs, appLogger.Logger, fuelRepo, fleetRepo, registryUC)
	routeUC := routingUsecase.NewRouteUC()

	// Realign sequences and repair stale state before serving traffic
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := registryUC.SyncSequences(startupCtx); err != nil {
		appLogger.WithError(err).Fatal("Failed to sync id sequences")
	}
	if err := fleetUC.Reconcile(startupCtx); err != nil {
		appLogger.WithError(err).Fatal("Failed to reconcile fleet state")
	}

	// Initialize handlers
	fleetH := fleetHandler.NewFleetHandler(fleetUC)
	tripH := tripHandler.NewTripHandler(tripUC)
	maintenanceH := maintenanceHandler.NewMaintenanceHandler(maintenanceUC)
	fuelH := fuelHandler.NewFuelHandler(fuelUC)
	routingH := routingHandler.NewRoutingHandler(routeUC)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(configs.Server.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(configs.Server.WriteTimeout) * time.Second

	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.ContextTimeoutMiddleware(time.Duration(configs.Database.TimeoutSeconds) * time.Second))
	e.Use(middleware.LoggerMiddleware(appLogger))

	health.RegisterHealthEndpoints(e, appName, postgresClient, redisClient)

	// Route groups: public auth, token-protected reads and trip flow,
	// admin-only mutations
	public := e.Group("")
	protected := e.Group("", middleware.JWTAuthMiddleware(configs.JWT))
	admin := e.Group("", middleware.JWTAuthMiddleware(configs.JWT), middleware.AdminOnlyMiddleware())

	fleetH.RegisterPublicRoutes(public)
	fleetH.RegisterRoutes(protected)
	fleetH.RegisterAdminRoutes(admin)
	tripH.RegisterRoutes(protected)
	maintenanceH.RegisterRoutes(protected)
	maintenanceH.RegisterAdminRoutes(admin)
	fuelH.RegisterRoutes(protected)
	fuelH.RegisterAdminRoutes(admin)
	routingH.RegisterRoutes(protected)

	// Start server with graceful shutdown
	go func() {
		addr := fmt.Sprintf("%s:%d", configs.Server.Host, configs.Server.Port)
		appLogger.WithFields(logrus.Fields{
			"app":  appName,
			"addr": addr,
		}).Info("Starting server")

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}
}
