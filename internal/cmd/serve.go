package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kalban_greenbag/internal/config"
	"kalban_greenbag/internal/database"
	"kalban_greenbag/internal/events"
	"kalban_greenbag/internal/handlers"
	"kalban_greenbag/internal/logger"
	"kalban_greenbag/internal/redis"
	"kalban_greenbag/internal/repository"
	"kalban_greenbag/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	log.Info("Database connected")

	redisClient, err := redis.Initialize(cfg.RedisURL, cfg.OrderCodeStart)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info("Redis connected")

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	customizationRepo := repository.NewProductCustomizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	optionRepo := repository.NewCustomizationOptionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize services
	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:    orderRepo,
		Items:     orderItemRepo,
		Users:     userRepo,
		Materials: materialRepo,
		Codes:     redisClient,
		Tx:        txManager,
		Events:    publisher,
		Logger:    log,
		Clock:     time.Now,
	})
	if err != nil {
		return err
	}
	orderItemService, err := services.NewOrderItemService(services.OrderItemServiceDeps{
		Orders:    orderRepo,
		Items:     orderItemRepo,
		Materials: materialRepo,
		Logger:    log,
		Clock:     time.Now,
	})
	if err != nil {
		return err
	}
	customizationService, err := services.NewProductCustomizationService(services.ProductCustomizationServiceDeps{
		Customizations: customizationRepo,
		Products:       productRepo,
		Options:        optionRepo,
		Logger:         log,
		Clock:          time.Now,
	})
	if err != nil {
		return err
	}
	analyticsService, err := services.NewAnalyticsService(services.AnalyticsServiceDeps{
		Orders:         orderRepo,
		Customizations: customizationRepo,
		Location:       cfg.Location,
	})
	if err != nil {
		return err
	}

	// Setup routes
	router := handlers.Router{
		Orders:         handlers.NewOrderHandler(orderService, orderItemService, analyticsService),
		Customizations: handlers.NewProductCustomizationHandler(customizationService),
		Checks: map[string]handlers.HealthCheck{
			"database": database.HealthCheck(db),
			"redis":    redisClient.Ping,
		},
		Logger: log,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.ServerPort).Info("Starting order service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-sigChan:
	}

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server gracefully stopped")
	return nil
}

func newPublisher(cfg *config.Config, log *logrus.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn("No Kafka brokers configured, order events are disabled")
		return events.NopPublisher{}, nil
	}
	producer, err := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	log.WithField("topic", cfg.KafkaOrderTopic).Info("Kafka producer ready")
	return producer, nil
}
