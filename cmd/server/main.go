package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillswap/skillswap-server/internal/api"
	"github.com/skillswap/skillswap-server/internal/config"
	"github.com/skillswap/skillswap-server/internal/email"
	"github.com/skillswap/skillswap-server/internal/ratelimit"
	"github.com/skillswap/skillswap-server/internal/repository/postgres"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub(repos.Swap)
	go hub.Run()

	// Email delivery: Sendgrid in production, console otherwise
	var emailSvc email.Service
	if cfg.SendgridAPIKey != "" {
		emailSvc = email.NewSendgridService(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFromAddr)
	} else {
		log.Println("SENDGRID_API_KEY not set, logging emails to console")
		emailSvc = email.NewConsoleService()
	}

	// OTP resend cooldown: Redis-backed when available
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		limiter, err = ratelimit.NewRedisLimiter(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
	} else {
		log.Println("REDIS_URL not set, using in-memory rate limiter")
		limiter = ratelimit.NewMemoryLimiter()
	}

	// Initialize services
	services := service.NewServices(repos, cfg, emailSvc, limiter)

	// Initialize router
	router := api.NewRouter(services, hub)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	hub.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
