package valueobject

import "fmt"

// PaymentStatus is the normalized status of the funding leg as reported by a
// payment gateway.
type PaymentStatus struct {
	value string
}

var (
	PaymentStatusSucceeded      = PaymentStatus{"succeeded"}
	PaymentStatusFailed         = PaymentStatus{"failed"}
	PaymentStatusCancelled      = PaymentStatus{"cancelled"}
	PaymentStatusPending        = PaymentStatus{"pending"}
	PaymentStatusRequiresAction = PaymentStatus{"requires_action"}
)

var validPaymentStatuses = map[string]PaymentStatus{
	"succeeded":       PaymentStatusSucceeded,
	"failed":          PaymentStatusFailed,
	"cancelled":       PaymentStatusCancelled,
	"pending":         PaymentStatusPending,
	"requires_action": PaymentStatusRequiresAction,
}

// NewPaymentStatus validates and creates a PaymentStatus from a string.
func NewPaymentStatus(s string) (PaymentStatus, error) {
	if status, ok := validPaymentStatuses[s]; ok {
		return status, nil
	}
	return PaymentStatus{}, fmt.Errorf("invalid payment status: %q", s)
}

// String returns the string representation of the payment status.
func (s PaymentStatus) String() string {
	return s.value
}

// IsFinal returns true once the gateway will no longer change the status.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// IsDeclined returns true for an explicit gateway decline or cancellation.
func (s PaymentStatus) IsDeclined() bool {
	return s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// IsZero returns true if the payment status is uninitialized.
func (s PaymentStatus) IsZero() bool {
	return s.value == ""
}
