package http

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/metrics"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SubmitFixRequest is the driver-side fix payload. Lat and Lng are
// pointers so a missing coordinate is distinguishable from a zero one.
type SubmitFixRequest struct {
	VehicleID  string    `json:"vehicle_id" validate:"required"`
	Lat        *float64  `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng        *float64  `json:"lng" validate:"required,gte=-180,lte=180"`
	Speed      float64   `json:"speed" validate:"gte=0"`
	Accuracy   float64   `json:"accuracy" validate:"gte=0"`
	Source     string    `json:"source" validate:"omitempty,oneof=driver_gps fallback simulated"`
	CapturedAt time.Time `json:"captured_at"`
}

// SubmitFixHandler accepts a raw GPS fix, enriches it with route progress,
// and records it. Shape validation is the only failure surface; everything
// past it degrades instead of erroring.
func SubmitFixHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SubmitFixRequest
		if err := c.BodyParser(&req); err != nil {
			metrics.FixValidationRejected.WithLabelValues("body").Inc()
			return errBadRequest(c, "malformed request body: "+err.Error())
		}

		if err := validate.Struct(req); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) && len(ve) > 0 {
				field := strings.ToLower(ve[0].Field())
				metrics.FixValidationRejected.WithLabelValues(field).Inc()
				return errValidation(c, field, validationMessage(ve[0]))
			}
			metrics.FixValidationRejected.WithLabelValues("unknown").Inc()
			return errBadRequest(c, err.Error())
		}

		fix := domain.Fix{
			VehicleID:  req.VehicleID,
			Location:   domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lng},
			Speed:      req.Speed,
			AccuracyM:  req.Accuracy,
			Source:     domain.FixSource(req.Source),
			CapturedAt: req.CapturedAt,
		}

		ack := deps.Tracking.SubmitFix(c.Context(), fix)
		return c.Status(fiber.StatusAccepted).JSON(ack)
	}
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte", "lte":
		return field + " is out of range"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// VehicleFixHandler returns the last known fix for one vehicle, tagged
// fresh or stale with its age. Stale data is never mislabeled as fresh.
func VehicleFixHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "vehicle id is required")
		}

		snap, ok := deps.Tracking.QueryCurrent(c.Context(), id)
		if !ok {
			return errNotFound(c, "no_fix", "vehicle has not reported a fix")
		}
		return c.JSON(snap)
	}
}

// ActiveFleetHandler returns every fix inside the freshness window.
func ActiveFleetHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fixes := deps.Tracking.QueryAllActive(c.Context())
		return c.JSON(fiber.Map{
			"count": len(fixes),
			"fixes": fixes,
		})
	}
}

// ListRoutesHandler returns the static route configuration.
func ListRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		routes := deps.Routes.All()

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(routes)
		if offset >= total {
			routes = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			routes = routes[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: routes, Pagination: pg})
	}
}

// GetRouteHandler returns the route registered for one vehicle.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("vehicleId")
		if id == "" {
			return errBadRequest(c, "vehicle id is required")
		}
		route, ok := deps.Routes.RouteFor(id)
		if !ok {
			return errNotFound(c, "not_found", "no route registered for vehicle")
		}
		return c.JSON(route)
	}
}
