/*
Package main is the entry point for the pairlink server.

It is responsible for loading configuration, initializing the global logging system,
wiring the session store to the room service, starting the eviction monitor and the
HTTP server, and gracefully handling operating system interrupt signals (SIGINT,
SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pairlink/internal/app/marker"
	"pairlink/internal/app/room"
	"pairlink/internal/app/store"
	"pairlink/internal/app/sweeper"
	"pairlink/internal/app/user"
	"pairlink/internal/configs"
	"pairlink/internal/handler"
	"pairlink/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("sweep_interval", cfg.SweepInterval).
		Dur("user_timeout", cfg.UserTimeout).
		Dur("room_timeout", cfg.RoomTimeout).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Select the session store backend. Redis is shared across instances; the
	// in-memory store serves single-instance development setups.
	var sessionStore store.Store
	if cfg.RedisAddr != "" {
		redisStore, err := store.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logx.Fatal(err, "Failed to connect session store")
		}
		defer redisStore.Close()
		sessionStore = redisStore

		logx.Info("Session store connected", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		memStore := store.NewMemory()
		defer memStore.Close()
		sessionStore = memStore

		logx.Warn("Using in-memory session store; state is not shared across instances")
	}

	// Wire the domain components.
	directory := room.NewDirectory(sessionStore)
	registry := user.NewRegistry(sessionStore)
	ledger := marker.NewLedger(sessionStore, cfg.MarkerTTL)
	rooms := room.NewService(directory, registry, ledger)

	// Every instance runs its own eviction monitor; the sweeps are idempotent
	// against the shared store, so redundant timers are harmless.
	monitor := sweeper.NewMonitor(directory, registry, ledger, sweeper.Config{
		Interval:    cfg.SweepInterval,
		UserTimeout: cfg.UserTimeout,
		RoomTimeout: cfg.RoomTimeout,
	})
	go monitor.Run(ctx)

	// Setup HTTP server and routes
	router := handler.Router(&handler.AppDeps{
		Rooms:  rooms,
		Config: cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("pairlink server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
