package valueobject

import "fmt"

// RemittanceStatus represents the lifecycle state of a remittance.
type RemittanceStatus struct {
	value string
}

var (
	RemittanceStatusCreated          = RemittanceStatus{"created"}
	RemittanceStatusPaymentInitiated = RemittanceStatus{"payment_initiated"}
	RemittanceStatusPaymentProcessed = RemittanceStatus{"payment_processed"}
	RemittanceStatusPayoutInitiated  = RemittanceStatus{"payout_initiated"}
	RemittanceStatusCompleted        = RemittanceStatus{"completed"}
	RemittanceStatusFailed           = RemittanceStatus{"failed"}
	RemittanceStatusCancelled        = RemittanceStatus{"cancelled"}
)

var validRemittanceStatuses = map[string]RemittanceStatus{
	"created":           RemittanceStatusCreated,
	"payment_initiated": RemittanceStatusPaymentInitiated,
	"payment_processed": RemittanceStatusPaymentProcessed,
	"payout_initiated":  RemittanceStatusPayoutInitiated,
	"completed":         RemittanceStatusCompleted,
	"failed":            RemittanceStatusFailed,
	"cancelled":         RemittanceStatusCancelled,
}

// NewRemittanceStatus validates and creates a RemittanceStatus from a string.
func NewRemittanceStatus(s string) (RemittanceStatus, error) {
	if status, ok := validRemittanceStatuses[s]; ok {
		return status, nil
	}
	return RemittanceStatus{}, fmt.Errorf("invalid remittance status: %q", s)
}

// String returns the string representation of the remittance status.
func (s RemittanceStatus) String() string {
	return s.value
}

// IsTerminal returns true for COMPLETED, FAILED and CANCELLED.
func (s RemittanceStatus) IsTerminal() bool {
	return s == RemittanceStatusCompleted || s == RemittanceStatusFailed || s == RemittanceStatusCancelled
}

// IsInFlight returns true while either leg is still being executed.
func (s RemittanceStatus) IsInFlight() bool {
	return s == RemittanceStatusPaymentInitiated ||
		s == RemittanceStatusPaymentProcessed ||
		s == RemittanceStatusPayoutInitiated
}

// IsZero returns true if the remittance status is uninitialized.
func (s RemittanceStatus) IsZero() bool {
	return s.value == ""
}
