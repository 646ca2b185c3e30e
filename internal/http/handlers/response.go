// Package handlers provides HTTP handler implementations for the public,
// admin, and voice APIs.
//
// This file defines the standard response utilities used across all
// endpoints: the structured error envelope, the validation-failure envelope,
// and helpers for common success shapes. The goal is uniform, predictable
// responses for both success and failure cases.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error formatting and logs 5xx responses with
//     request context.
//   - Validation failures add a `details` list with per-field messages.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "submission not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/http/middleware"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// RequestID correlates server logs with client-side errors; Code is a
// stable, machine-readable string (see errors.go constants); Message is
// safe for display to users. Details is present only on validation
// failures.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"submission not found"`
	// Per-field validation messages, when applicable
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail is one field-level validation message.
type FieldDetail struct {
	Field   string `json:"field" example:"zip_code"`
	Message string `json:"message" example:"Please enter a 5-digit ZIP code"`
}

// fail aborts the request with a structured error and logs server-side
// errors with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	failWith(c, status, code, msg, nil)
}

func failWith(c *gin.Context, status int, code, msg string, details []FieldDetail) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Details:   details,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// failValidation writes a 400 with per-field details from a
// services.ValidationError.
func failValidation(c *gin.Context, ve *services.ValidationError) {
	details := make([]FieldDetail, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		details = append(details, FieldDetail{Field: f.Field, Message: f.Message})
	}
	failWith(c, http.StatusBadRequest, ErrCodeValidation, "Invalid form data", details)
}

// Fail is the exported variant of fail(). Router setup uses it for NoRoute
// and NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// twiml writes a rendered TwiML document with the content type Twilio
// expects.
func twiml(c *gin.Context, doc string) {
	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(doc))
}
