package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Vishal-jain-01/bustrack/internal/adapters/http"
	"github.com/Vishal-jain-01/bustrack/internal/adapters/memstore"
	natsadapter "github.com/Vishal-jain-01/bustrack/internal/adapters/nats"
	"github.com/Vishal-jain-01/bustrack/internal/adapters/routesfile"
	"github.com/Vishal-jain-01/bustrack/internal/adapters/valkey"
	"github.com/Vishal-jain-01/bustrack/internal/core/ports"
	"github.com/Vishal-jain-01/bustrack/internal/core/usecases"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/clock"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/config"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/logging"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("bustrack-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Static route configuration, loaded once at startup
	registry, err := routesfile.Load(cfg.Tracking.RoutesFile)
	if err != nil {
		log.Fatalf("routes: %v", err)
	}
	slog.Info("routes loaded", "file", cfg.Tracking.RoutesFile, "count", len(registry.All()))

	// Fix store
	store := memstore.New(cfg.Tracking.FreshnessWindow(), clock.RealClock{})

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Use cases
	progress := usecases.NewProgressService()
	tracking := usecases.NewTrackingService(
		registry, store, progress,
		eventPublisherOrNil(publisher), cacheOrNil(cache),
		clock.RealClock{}, cfg.Tracking.ActiveCacheTTLSeconds,
	)

	deps := &http.Dependencies{
		Tracking: tracking,
		Routes:   registry,
		NATS:     natsConn,
		Cache:    cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024, // fixes are tiny; no reason to accept more
		AppName:      "BusTrack API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// A nil *Publisher stored in a non-nil interface would still be called;
// map nil pointers to nil interfaces before injection.
func eventPublisherOrNil(p *natsadapter.Publisher) ports.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func cacheOrNil(c *valkey.Cache) ports.CacheService {
	if c == nil {
		return nil
	}
	return c
}
