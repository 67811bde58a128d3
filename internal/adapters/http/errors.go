package http

import "github.com/gofiber/fiber/v2"

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errValidation returns a 400 error naming the invalid field.
func errValidation(c *fiber.Ctx, field, msg string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(400).JSON(APIError{
		Status:    400,
		Code:      "validation_error",
		Message:   msg,
		Field:     field,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, code, msg string) error {
	return newError(c, 404, code, msg)
}
