// Package services defines the business logic for screenings, leads, agents,
// advisors, and phone calls. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrSubmissionNotFound indicates that the requested screening
	// submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrLeadNotFound indicates that the requested lead does not exist.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrAgentNotFound indicates that the requested agent does not exist.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrAdvisorNotFound indicates that the requested advisor does not exist.
	ErrAdvisorNotFound = errors.New("advisor not found")

	// ErrCallNotFound indicates that no phone lead exists for a call SID.
	ErrCallNotFound = errors.New("call not found")

	// ErrInvalidStatus is returned when a status transition targets a value
	// outside the allowed set for the record type.
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrDeliveryAlreadySent is returned when a retry is requested for a
	// delivery channel that has already been delivered.
	ErrDeliveryAlreadySent = errors.New("delivery already sent")

	// ErrDeliveryExhausted is returned when a channel's attempt budget is
	// spent; only an admin retry resets it.
	ErrDeliveryExhausted = errors.New("delivery attempts exhausted")

	// ErrUnknownChannel is returned when a delivery channel name is neither
	// the pipeline nor the agent channel.
	ErrUnknownChannel = errors.New("unknown delivery channel")

	// ErrNoDestination is returned when a delivery channel has no webhook
	// URL to post to.
	ErrNoDestination = errors.New("no delivery destination configured")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures from input validation.
// Handlers render it as a 400 response with a details list.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0].Field + ": " + e.Fields[0].Message
}

// AsValidation unwraps a ValidationError from err, if present.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
