package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, no_route, directions_unavailable, internal_error
	Message   string `json:"message"` // Human-readable message
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

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errDomain maps use case errors onto HTTP responses.
func errDomain(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRoute), errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrHazardNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrNoRoute):
		return newError(c, fiber.StatusNotFound, "no_route", err.Error())
	case errors.Is(err, domain.ErrDirectionsUnavailable):
		return newError(c, fiber.StatusServiceUnavailable, "directions_unavailable", err.Error())
	default:
		logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
