package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitbook/internal/api/router"
	"fitbook/internal/config"
	"fitbook/internal/infrastructure/database"
	"fitbook/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	serverPort string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Class Booking HTTP server",
	Long: `Start the Class Booking HTTP server with full booking system functionality.
This includes:
- Class booking endpoints with idempotency support
- FIFO waitlist management and promotion
- Seat availability queries
- Async processing with queue workers
- Redis caching for performance`,
	Run: func(cmd *cobra.Command, args []string) {
		startBookingServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&serverPort, "port", "p", "8080", "Port for the booking server to listen on")
}

func startBookingServer() {
	cfg := config.Get()
	if serverPort != "8080" {
		cfg.Server.Port = serverPort
	}

	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Error("Failed to run database migrations: %v", err)
		os.Exit(1)
	}

	if err := database.HealthCheck(db); err != nil {
		logger.Error("Database health check failed: %v", err)
		os.Exit(1)
	}

	routerComponents := router.NewBookingRouterWithQueue(db)
	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        routerComponents.Router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Starting Class Booking Server on port %s", cfg.Server.Port)
		logger.Info("Available endpoints:")
		logger.Info("  POST   /api/v1/bookings - Book a class")
		logger.Info("  DELETE /api/v1/bookings/{id} - Cancel a booking")
		logger.Info("  GET    /api/v1/bookings - List bookings")
		logger.Info("  GET    /api/v1/classes - List classes")
		logger.Info("  GET    /api/v1/classes/{id}/waitlist - Class waitlist")
		logger.Info("  GET    /api/v1/members/{id}/bookings/upcoming - Member schedule")
		logger.Info("  GET    /health - Health check")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start booking server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down Class Booking Server...")
	logger.Info("Stopping queue workers...")
	if routerComponents.QueueService != nil {
		routerComponents.QueueService.StopWorkers()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	if routerComponents.CacheService != nil {
		if err := routerComponents.CacheService.Close(); err != nil {
			logger.Warn("Failed to close cache connection: %v", err)
		}
	}

	logger.Info("Class Booking Server exited")
}
