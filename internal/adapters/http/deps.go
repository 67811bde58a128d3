package http

import (
	"github.com/nats-io/nats.go"

	"github.com/Vishal-jain-01/bustrack/internal/adapters/valkey"
	"github.com/Vishal-jain-01/bustrack/internal/core/ports"
	"github.com/Vishal-jain-01/bustrack/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Tracking *usecases.TrackingService
	Routes   ports.RouteRegistry
	NATS     *nats.Conn
	Cache    *valkey.Cache
}
