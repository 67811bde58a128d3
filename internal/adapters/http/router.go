package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/Vishal-jain-01/bustrack/internal/pkg/metrics"
)

// SetupRoutes registers all REST and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: generous enough for a fleet of drivers reporting
	// every few seconds plus polling clients
	app.Use(limiter.New(limiter.Config{
		Max:        240,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness, no timeout wrapper; the checks are fast
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 with a 5s per-request timeout; every operation is an
	// in-memory computation, nothing should ever take longer
	v1 := app.Group("/v1")
	v1.Post("/fixes", timeout.NewWithContext(SubmitFixHandler(deps), 5*time.Second))
	v1.Get("/vehicles/active", timeout.NewWithContext(ActiveFleetHandler(deps), 5*time.Second))
	v1.Get("/vehicles/:id/fix", timeout.NewWithContext(VehicleFixHandler(deps), 5*time.Second))
	v1.Get("/routes", timeout.NewWithContext(ListRoutesHandler(deps), 5*time.Second))
	v1.Get("/routes/:vehicleId", timeout.NewWithContext(GetRouteHandler(deps), 5*time.Second))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket live fix stream (only when NATS is wired)
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
