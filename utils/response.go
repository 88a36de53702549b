package utils

import (
	"link-downloader-go/models"

	"github.com/gofiber/fiber/v2"
)

// Error codes
const (
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrMissingURL        = "MISSING_URL"
	ErrInvalidFormatID   = "INVALID_FORMAT_ID"
	ErrInvalidDownloadID = "INVALID_DOWNLOAD_ID"
	ErrDownloadNotFound  = "DOWNLOAD_NOT_FOUND"
	ErrFetchFailed       = "FETCH_FAILED"
	ErrProcessingFailed  = "PROCESSING_FAILED"
	ErrRateLimited       = "RATE_LIMITED"
	ErrInternalError     = "INTERNAL_ERROR"
)

// Error returns a JSON error response
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// BadRequest returns 400 error
func BadRequest(c *fiber.Ctx, code, message string) error {
	return Error(c, fiber.StatusBadRequest, code, message)
}

// NotFound returns 404 error
func NotFound(c *fiber.Ctx, code, message string) error {
	return Error(c, fiber.StatusNotFound, code, message)
}

// TooManyRequests returns 429 error
func TooManyRequests(c *fiber.Ctx) error {
	return Error(c, fiber.StatusTooManyRequests, ErrRateLimited, "Too many requests")
}

// InternalError returns 500 error
func InternalError(c *fiber.Ctx, code, message string) error {
	return Error(c, fiber.StatusInternalServerError, code, message)
}
