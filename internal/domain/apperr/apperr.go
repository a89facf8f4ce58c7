// Package apperr defines the stable error taxonomy surfaced by the
// remittance core. Every error carries a machine-readable kind plus a human
// message; raw gateway or storage errors never escape the application layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable machine-readable error kind.
type Kind string

const (
	KindInvalidRequestData       Kind = "invalid_request_data"
	KindMissingRequiredField     Kind = "missing_required_field"
	KindRemittanceNotFound       Kind = "remittance_not_found"
	KindDuplicateRequest         Kind = "duplicate_request"
	KindPaymentForbidden         Kind = "payment_forbidden"
	KindUpdateForbidden          Kind = "update_forbidden"
	KindCancellationForbidden    Kind = "cancellation_forbidden"
	KindPayoutMethodNotSupported Kind = "payout_method_not_supported"
	KindWebhookProcessingFailure Kind = "webhook_processing_failure"
	KindConcurrentModification   Kind = "concurrent_modification"
	KindUnauthorizedAccess       Kind = "unauthorized_access"
	KindInternalServerError      Kind = "internal_server_error"
)

// Error is a taxonomy error.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that records an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// Kind returns the machine-readable kind.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the human-readable message.
func (e *Error) Message() string { return e.message }

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the Kind from err, or internal_server_error if err is not a
// taxonomy error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternalServerError
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}

// InvalidRequest creates an invalid_request_data error.
func InvalidRequest(message string) *Error {
	return New(KindInvalidRequestData, message)
}

// MissingField creates a missing_required_field error naming the field.
func MissingField(field string) *Error {
	return Newf(KindMissingRequiredField, "missing required field: %s", field)
}

// NotFound creates a remittance_not_found error.
func NotFound(remittanceID string) *Error {
	return Newf(KindRemittanceNotFound, "remittance %s not found", remittanceID)
}

// Duplicate creates a duplicate_request error.
func Duplicate(remittanceID string) *Error {
	return Newf(KindDuplicateRequest, "remittance %s already exists", remittanceID)
}

// PaymentForbidden creates a payment_forbidden error naming the blocking status.
func PaymentForbidden(currentStatus string) *Error {
	return Newf(KindPaymentForbidden, "payment not allowed while remittance is %s", currentStatus)
}

// UpdateForbidden creates an update_forbidden error naming the blocking status.
func UpdateForbidden(currentStatus string) *Error {
	return Newf(KindUpdateForbidden, "update not allowed while remittance is %s", currentStatus)
}

// CancellationForbidden creates a cancellation_forbidden error naming the
// blocking status.
func CancellationForbidden(currentStatus string) *Error {
	return Newf(KindCancellationForbidden, "cancellation not allowed while remittance is %s", currentStatus)
}

// PayoutMethodNotSupported creates a payout_method_not_supported error.
func PayoutMethodNotSupported(kind string) *Error {
	return Newf(KindPayoutMethodNotSupported, "payout method %s is not supported", kind)
}

// WebhookFailure creates a webhook_processing_failure error.
func WebhookFailure(message string, cause error) *Error {
	return Wrap(KindWebhookProcessingFailure, message, cause)
}

// Conflict creates a concurrent_modification error.
func Conflict(remittanceID string) *Error {
	return Newf(KindConcurrentModification, "remittance %s was modified concurrently", remittanceID)
}

// Internal wraps an unexpected failure as internal_server_error.
func Internal(message string, cause error) *Error {
	return Wrap(KindInternalServerError, message, cause)
}
