package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/piresc/busfleet/internal/pkg/bus"
	"github.com/piresc/busfleet/internal/pkg/config"
	"github.com/piresc/busfleet/internal/pkg/database"
	"github.com/piresc/busfleet/internal/pkg/eta"
	"github.com/piresc/busfleet/internal/pkg/health"
	httppkg "github.com/piresc/busfleet/internal/pkg/http"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/metrics"
	"github.com/piresc/busfleet/internal/pkg/middleware"
	"github.com/piresc/busfleet/internal/pkg/models"
	natspkg "github.com/piresc/busfleet/internal/pkg/nats"
	nrpkg "github.com/piresc/busfleet/internal/pkg/newrelic"
	nsqpkg "github.com/piresc/busfleet/internal/pkg/nsq"
	"github.com/piresc/busfleet/internal/pkg/scheduler"
	"github.com/piresc/busfleet/internal/pkg/server"
	"github.com/piresc/busfleet/internal/pkg/stops"
	wspkg "github.com/piresc/busfleet/internal/pkg/websocket"
	"github.com/piresc/busfleet/services/fleet"
	fleetgateway "github.com/piresc/busfleet/services/fleet/gateway"
	fleethandler "github.com/piresc/busfleet/services/fleet/handler"
	fleetrepository "github.com/piresc/busfleet/services/fleet/repository"
	"github.com/piresc/busfleet/services/fleet/simulator"
	fleetstore "github.com/piresc/busfleet/services/fleet/store"
	fleetusecase "github.com/piresc/busfleet/services/fleet/usecase"
	"github.com/piresc/busfleet/services/notification"
	notificationgateway "github.com/piresc/busfleet/services/notification/gateway"
	notificationhandler "github.com/piresc/busfleet/services/notification/handler"
	notificationrepository "github.com/piresc/busfleet/services/notification/repository"
	notificationusecase "github.com/piresc/busfleet/services/notification/usecase"
	"github.com/piresc/busfleet/services/reservation"
	reservationgateway "github.com/piresc/busfleet/services/reservation/gateway"
	reservationhandler "github.com/piresc/busfleet/services/reservation/handler"
	"github.com/piresc/busfleet/services/reservation/ledger"
	reservationrepository "github.com/piresc/busfleet/services/reservation/repository"
	reservationusecase "github.com/piresc/busfleet/services/reservation/usecase"
	"go.uber.org/zap"
)

func main() {
	appName := "busfleet"
	configs := config.InitConfig(config.GetEnv("CONFIG_PATH", "config/fleet.env"))
	if err := config.Validate(configs); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
		zap.String("bus", configs.Bus.Transport),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthService := health.NewHealthService(zapLogger)

	// Initialize message bus
	messageBus, err := newBus(configs, healthService)
	if err != nil {
		zapLogger.Fatal("Failed to initialize message bus", zap.Error(err))
	}

	// Initialize PostgreSQL when configured; without it state lives in memory only
	var (
		fleetRepo        fleet.FleetRepo
		reservationRepo  reservation.ReservationRepo
		notificationRepo notification.NotificationRepo
	)
	if configs.Database.Host != "" {
		postgresClient, err := database.NewPostgresClient(configs.Database)
		if err != nil {
			zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer postgresClient.Close()
		if err := postgresClient.Migrate(ctx); err != nil {
			zapLogger.Fatal("Failed to apply schema", zap.Error(err))
		}
		healthService.AddChecker("postgres", health.CheckerFunc(postgresClient.Ping))

		fleetRepo = fleetrepository.NewFleetRepository(postgresClient.GetDB())
		reservationRepo = reservationrepository.NewReservationRepository(postgresClient.GetDB())
		notificationRepo = notificationrepository.NewNotificationRepository(postgresClient.GetDB())
	}

	// Initialize Redis geo cache and reservation rate limit when configured
	var fleetCache fleet.FleetCache
	var reserveLimiter echo.MiddlewareFunc
	if configs.Redis.Host != "" {
		redisClient, err := database.NewRedisClient(configs.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		healthService.AddChecker("redis", health.CheckerFunc(redisClient.Ping))
		fleetCache = fleetrepository.NewFleetCache(redisClient)
		if configs.RateLimit.ReserveLimit > 0 {
			reserveLimiter = middleware.UserRateLimiter(configs.RateLimit.ReserveLimit,
				configs.RateLimit.ReservePeriod, redisClient.GetClient())
		}
	}

	// Fleet
	store := fleetstore.New(fleetRepo, configs.Fleet.BoundingBox(), configs.Fleet.HistoryLimit)
	if _, err := store.Load(ctx); err != nil {
		zapLogger.Fatal("Failed to load fleet", zap.Error(err))
	}
	fleetUC := fleetusecase.NewFleetUC(store, fleetCache, fleetgateway.NewFleetGW(messageBus))

	// Notifications
	reservationLedger := ledger.New()
	catalog, err := stops.Load(configs.Stops.CatalogPath)
	if err != nil {
		zapLogger.Fatal("Failed to load stop catalog", zap.Error(err))
	}
	estimator, err := newEstimator(configs)
	if err != nil {
		zapLogger.Fatal("Failed to initialize ETA estimator", zap.Error(err))
	}
	var smsClient *httppkg.EnhancedClient
	if configs.Notification.SMSGatewayURL != "" {
		smsClient = httppkg.NewEnhancedClient("sms", configs.Notification.SMSGatewayURL,
			configs.Notification.SMSAPIKey, configs.Notification.SMSTimeout, zapLogger)
	}
	dispatcher := notificationusecase.NewDispatcher(
		configs.Notification,
		reservationLedger,
		catalog,
		estimator,
		notificationgateway.NewNotifierGW(smsClient, messageBus),
		notificationRepo,
		notificationgateway.NewAlertGW(messageBus),
	)

	// Reservations
	paymentGW := reservationgateway.NewSimulatedPaymentGW()
	if configs.Payment.GatewayURL != "" {
		paymentGW = reservationgateway.NewPaymentGW(httppkg.NewEnhancedClient("payment",
			configs.Payment.GatewayURL, configs.Payment.APIKey, configs.Payment.Timeout, zapLogger))
	}
	reservationUC := reservationusecase.NewReservationUC(
		fleetUC,
		reservationLedger,
		reservationRepo,
		paymentGW,
		reservationgateway.NewReservationEventsGW(messageBus),
		dispatcher,
	)
	if _, err := reservationUC.Load(ctx); err != nil {
		zapLogger.Fatal("Failed to load reservations", zap.Error(err))
	}

	// Committed vehicle changes feed the cache, the bus and arrival checks
	store.OnChange(fleetUC.HandleStateChange)
	store.OnChange(dispatcher.OnStateChange)

	// Periodic tasks
	sched := scheduler.New(
		scheduler.WithRunHook(metrics.ObserveTask),
		scheduler.WithSkipHook(metrics.SkipTask),
	)
	traced := func(name string, task scheduler.Task) scheduler.Task {
		return nrpkg.BackgroundTask(nrApp, name, task)
	}
	if configs.Fleet.SimulatorEnabled {
		sim := simulator.New(store, configs.Fleet)
		if err := sim.Register(sched, fleetUC.BroadcastFleetSnapshot, traced); err != nil {
			zapLogger.Fatal("Failed to register simulator tasks", zap.Error(err))
		}
	} else if err := sched.Every(simulator.TaskBroadcast, configs.Fleet.BroadcastInterval,
		traced(simulator.TaskBroadcast, fleetUC.BroadcastFleetSnapshot)); err != nil {
		zapLogger.Fatal("Failed to register broadcast task", zap.Error(err))
	}

	// Handlers
	manager := wspkg.NewManager(configs.JWT)
	fleetHandler := fleethandler.NewHandler(fleetUC, manager, configs)
	unsubscribe, err := fleetHandler.InitBusConsumers(messageBus)
	if err != nil {
		zapLogger.Fatal("Failed to initialize bus consumers", zap.Error(err))
	}
	reservationHandler := reservationhandler.NewHandler(reservationUC, configs, reserveLimiter)
	notificationHandler := notificationhandler.NewHandler(dispatcher, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterEnhancedHealthEndpoints(e, appName, configs.App.Version, healthService)
	metrics.RegisterEndpoint(e)
	fleetHandler.RegisterRoutes(e)
	reservationHandler.RegisterRoutes(e)
	notificationHandler.RegisterRoutes(e)

	// Start background work; deliveries outlive the signal so the outbox can drain
	dispatcher.Start(context.WithoutCancel(ctx))
	if err := sched.Start(ctx); err != nil {
		zapLogger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	srv.OnShutdown("bus", func(context.Context) error { return messageBus.Close() })
	srv.OnShutdown("bus consumers", func(context.Context) error {
		unsubscribe()
		return nil
	})
	srv.OnShutdown("dispatcher", func(context.Context) error {
		dispatcher.Stop()
		return nil
	})
	srv.OnShutdown("scheduler", func(context.Context) error {
		sched.Stop()
		return nil
	})

	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.String("app", appName), zap.Error(err))
	}
}

// newBus connects the configured transport and registers its health check
func newBus(configs *models.Config, healthService *health.HealthService) (bus.Bus, error) {
	switch configs.Bus.Transport {
	case "nats":
		client, err := natspkg.NewClient(configs.NATS.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		healthService.AddChecker("nats", health.CheckerFunc(func(context.Context) error { return client.Ping() }))
		return natspkg.NewBus(client), nil
	case "nsq":
		nsqBus, err := nsqpkg.NewBus(configs.NSQ.Address, configs.NSQ.Channel)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NSQ: %w", err)
		}
		healthService.AddChecker("nsq", health.CheckerFunc(func(context.Context) error { return nsqBus.Ping() }))
		return nsqBus, nil
	default:
		return bus.NewMemoryBus(0), nil
	}
}

func newEstimator(configs *models.Config) (eta.Estimator, error) {
	straight := eta.NewStraightLine(configs.Fleet.MinSpeedKph)
	if configs.Maps.Estimator != "google" {
		return straight, nil
	}
	return eta.NewGoogleMaps(configs.Maps.APIKey, configs.Maps.Timeout, straight)
}
