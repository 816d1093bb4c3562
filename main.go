package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carrent/config"
	"carrent/cron"
	"carrent/database"
	"carrent/handlers"
	"carrent/middleware"
	"carrent/routes"
	"carrent/services/booking"
	"carrent/services/events"
	"carrent/services/notification"
	"carrent/services/tasks"
	"carrent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repo, closeStore, err := database.OpenRentalStore(config.AppConfig)
	if err != nil {
		logger.Fatal("main: failed to open store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("main: failed to close store", zap.Error(err))
		}
	}()

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := repo.EnsureIndexes(indexCtx); err != nil {
		cancel()
		logger.Fatal("main: failed to ensure indexes", zap.Error(err))
	}
	cancel()

	if err := utils.InitSchedulerRedis(); err != nil {
		logger.Fatal("main: failed to connect scheduler redis", zap.Error(err))
	}
	defer func() { _ = utils.SchedulerRedisClient.Close() }()
	utils.StartHealthMonitor(ctx, utils.SchedulerRedisClient, repo)

	scheduler := tasks.NewAsynqScheduler(utils.SchedulerRedisOpt(), config.AppConfig.SchedulerQueue, logger)
	defer func() {
		if err := scheduler.Close(); err != nil {
			logger.Warn("main: failed to close scheduler", zap.Error(err))
		}
	}()

	var notifier notification.Notifier
	if config.AppConfig.FirebaseCredentialsFile != "" {
		fcm, err := utils.FirebaseInit(ctx, config.AppConfig.FirebaseCredentialsFile)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase", zap.Error(err))
		}
		notifier, err = notification.NewFCMNotifier(fcm, repo, logger)
		if err != nil {
			logger.Fatal("main: failed to create notifier", zap.Error(err))
		}
	} else {
		logger.Warn("main: FIREBASE_CREDENTIALS_FILE not set, booking pushes are disabled")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if config.AppConfig.RabbitMQURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(config.AppConfig.RabbitMQURL, config.AppConfig.EventsExchange)
		if err != nil {
			logger.Fatal("main: failed to connect to rabbitmq", zap.Error(err))
		}
		defer func() { _ = amqpPublisher.Close() }()
		publisher = amqpPublisher
	}

	queue := booking.NewMutationQueue(64)
	bookingService := &booking.DefaultBookingService{
		Repo:          repo,
		Scheduler:     scheduler,
		Publisher:     publisher,
		Queue:         queue,
		Logger:        logger.Named("booking"),
		BeforeEndLead: config.AppConfig.BeforeEndLead,
		OverdueGrace:  config.AppConfig.OverdueGrace,
	}

	worker := cron.InitBookingEventWorker(bookingService, notifier, logger.Named("worker"))

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(bookingHandler, handlers.HealthHandler))

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", config.AppConfig.StoreDriver))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	// Stop delivering events before draining the queue they feed.
	worker.Shutdown()
	queue.Close()
	stop()

	logger.Info("main: server stopped gracefully")
}
