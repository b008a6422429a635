package utils

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/types"
)

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, types.TypeNotFound)
}

// CustomErrorResponse writes err as an envelope. A *types.CustomError keeps
// its code and type, a *fiber.Error keeps its code, anything else is a 500
// with the detail logged rather than returned.
func CustomErrorResponse(c *fiber.Ctx, err error) error {
	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		return ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse(c, fiberErr.Message, fiberErr.Code, types.TypeServer)
	}

	log.Printf("Internal error on %s %s: %v", c.Method(), c.OriginalURL(), err)
	return ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, types.TypeServer)
}

// ErrorHandler is the app level fiber error handler
func ErrorHandler(c *fiber.Ctx, err error) error {
	return CustomErrorResponse(c, err)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}
