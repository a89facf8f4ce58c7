package valueobject

import "fmt"

// PayoutStatus is the normalized status of the disbursement leg as reported by
// a payout gateway.
type PayoutStatus struct {
	value string
}

var (
	PayoutStatusSuccess   = PayoutStatus{"success"}
	PayoutStatusFailed    = PayoutStatus{"failed"}
	PayoutStatusCancelled = PayoutStatus{"cancelled"}
	PayoutStatusPending   = PayoutStatus{"pending"}
)

var validPayoutStatuses = map[string]PayoutStatus{
	"success":   PayoutStatusSuccess,
	"failed":    PayoutStatusFailed,
	"cancelled": PayoutStatusCancelled,
	"pending":   PayoutStatusPending,
}

// NewPayoutStatus validates and creates a PayoutStatus from a string.
func NewPayoutStatus(s string) (PayoutStatus, error) {
	if status, ok := validPayoutStatuses[s]; ok {
		return status, nil
	}
	return PayoutStatus{}, fmt.Errorf("invalid payout status: %q", s)
}

// String returns the string representation of the payout status.
func (s PayoutStatus) String() string {
	return s.value
}

// IsFinal returns true once the gateway will no longer change the status.
func (s PayoutStatus) IsFinal() bool {
	return s == PayoutStatusSuccess || s == PayoutStatusFailed || s == PayoutStatusCancelled
}

// IsDeclined returns true for an explicit gateway failure or cancellation.
func (s PayoutStatus) IsDeclined() bool {
	return s == PayoutStatusFailed || s == PayoutStatusCancelled
}

// IsZero returns true if the payout status is uninitialized.
func (s PayoutStatus) IsZero() bool {
	return s.value == ""
}
