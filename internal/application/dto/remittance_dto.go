package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// CreateRemittanceRequest carries the fields of a create call. ID is an
// optional caller-supplied idempotency id.
type CreateRemittanceRequest struct {
	ID                  uuid.UUID                      `json:"id,omitempty"`
	MerchantID          string                         `json:"merchant_id"`
	ProfileID           string                         `json:"profile_id,omitempty"`
	Amount              int64                          `json:"amount"`
	SourceCurrency      string                         `json:"source_currency"`
	DestinationCurrency string                         `json:"destination_currency"`
	Sender              valueobject.SenderDetails      `json:"sender_details"`
	Beneficiary         valueobject.BeneficiaryDetails `json:"beneficiary_details"`
	Purpose             string                         `json:"purpose,omitempty"`
	Reference           string                         `json:"reference,omitempty"`
	RemittanceDate      time.Time                      `json:"remittance_date,omitempty"`
	Connector           string                         `json:"connector"`
	ReturnURL           string                         `json:"return_url,omitempty"`
	Metadata            map[string]any                 `json:"metadata,omitempty"`
	AutoProcess         bool                           `json:"auto_process,omitempty"`
}

// PaymentLegResponse is the funding-leg view.
type PaymentLegResponse struct {
	ExternalPaymentID      string    `json:"external_payment_id,omitempty"`
	ConnectorTransactionID string    `json:"connector_transaction_id,omitempty"`
	Status                 string    `json:"status,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// PayoutLegResponse is the disbursement-leg view.
type PayoutLegResponse struct {
	ExternalPayoutID       string    `json:"external_payout_id,omitempty"`
	ConnectorTransactionID string    `json:"connector_transaction_id,omitempty"`
	Status                 string    `json:"status,omitempty"`
	MethodType             string    `json:"method_type,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// RemittanceResponse is the canonical client view of a remittance.
type RemittanceResponse struct {
	ID                  uuid.UUID                      `json:"id"`
	MerchantID          string                         `json:"merchant_id"`
	ProfileID           string                         `json:"profile_id,omitempty"`
	Status              string                         `json:"status"`
	Amount              int64                          `json:"amount"`
	SourceCurrency      string                         `json:"source_currency"`
	DestinationCurrency string                         `json:"destination_currency"`
	DestinationAmount   int64                          `json:"destination_amount,omitempty"`
	ExchangeRate        string                         `json:"exchange_rate,omitempty"`
	Sender              valueobject.SenderDetails      `json:"sender_details"`
	Beneficiary         valueobject.BeneficiaryDetails `json:"beneficiary_details"`
	Purpose             string                         `json:"purpose,omitempty"`
	Reference           string                         `json:"reference,omitempty"`
	Connector           string                         `json:"connector"`
	ReturnURL           string                         `json:"return_url,omitempty"`
	FailureReason       string                         `json:"failure_reason,omitempty"`
	PaymentID           string                         `json:"payment_id,omitempty"`
	PayoutID            string                         `json:"payout_id,omitempty"`
	ClientSecret        string                         `json:"client_secret,omitempty"`
	Payment             *PaymentLegResponse            `json:"payment,omitempty"`
	Payout              *PayoutLegResponse             `json:"payout,omitempty"`
	CreatedAt           time.Time                      `json:"created_at"`
	UpdatedAt           time.Time                      `json:"updated_at"`
}

// PayRemittanceRequest starts the funding leg. FundingMethod overrides the
// one captured at create time when present.
type PayRemittanceRequest struct {
	RemittanceID  uuid.UUID                  `json:"remittance_id"`
	MerchantID    string                     `json:"merchant_id"`
	FundingMethod *valueobject.FundingMethod `json:"funding_method,omitempty"`
}

// RetrieveRemittanceRequest loads a remittance, optionally reconciling with
// the gateways first.
type RetrieveRemittanceRequest struct {
	RemittanceID uuid.UUID `json:"remittance_id"`
	MerchantID   string    `json:"merchant_id,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
	ForceSync    bool      `json:"force_sync,omitempty"`
}

// UpdateRemittanceRequest patches a remittance still in created status.
type UpdateRemittanceRequest struct {
	RemittanceID uuid.UUID                       `json:"remittance_id"`
	MerchantID   string                          `json:"merchant_id"`
	Reference    *string                         `json:"reference,omitempty"`
	ReturnURL    *string                         `json:"return_url,omitempty"`
	Metadata     map[string]any                  `json:"metadata,omitempty"`
	Beneficiary  *valueobject.BeneficiaryDetails `json:"beneficiary_details,omitempty"`
}

// CancelRemittanceRequest cancels a remittance before payout initiation.
type CancelRemittanceRequest struct {
	RemittanceID uuid.UUID `json:"remittance_id"`
	MerchantID   string    `json:"merchant_id"`
	Reason       string    `json:"reason,omitempty"`
}

// CancelRemittanceResponse reports the cancellation plus any refund warning.
type CancelRemittanceResponse struct {
	Remittance RemittanceResponse `json:"remittance"`
	// RefundWarning is set when the compensating refund could not be
	// confirmed; the cancellation itself still succeeded.
	RefundWarning string `json:"refund_warning,omitempty"`
}

// ListRemittancesRequest pages through a merchant's remittances.
type ListRemittancesRequest struct {
	MerchantID          string     `json:"merchant_id"`
	ProfileID           string     `json:"profile_id,omitempty"`
	Status              string     `json:"status,omitempty"`
	Connector           string     `json:"connector,omitempty"`
	SourceCurrency      string     `json:"source_currency,omitempty"`
	DestinationCurrency string     `json:"destination_currency,omitempty"`
	CreatedAfter        *time.Time `json:"created_after,omitempty"`
	CreatedBefore       *time.Time `json:"created_before,omitempty"`
	Limit               int        `json:"limit,omitempty"`
	Offset              int        `json:"offset,omitempty"`
}

// ListRemittancesResponse is a page plus the filter-wide total.
type ListRemittancesResponse struct {
	Items      []RemittanceResponse `json:"items"`
	TotalCount int                  `json:"total_count"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

// QuoteRequest asks for the FX rate, fee and resulting amounts.
type QuoteRequest struct {
	SourceCurrency      string `json:"source_currency"`
	DestinationCurrency string `json:"destination_currency"`
	Amount              int64  `json:"amount"`
	Connector           string `json:"connector,omitempty"`
}

// QuoteResponse prices a prospective remittance.
type QuoteResponse struct {
	SourceCurrency      string    `json:"source_currency"`
	DestinationCurrency string    `json:"destination_currency"`
	Amount              int64     `json:"amount"`
	ExchangeRate        string    `json:"exchange_rate"`
	Fee                 int64     `json:"fee"`
	DestinationAmount   int64     `json:"destination_amount"`
	TotalCost           int64     `json:"total_cost"`
	RateValidUntil      time.Time `json:"rate_valid_until"`
	Connector           string    `json:"connector,omitempty"`
	EstimatedDelivery   string    `json:"estimated_delivery,omitempty"`
}

// SyncRemittanceResult reports what a reconciliation pass changed.
type SyncRemittanceResult struct {
	RemittanceID   uuid.UUID `json:"remittance_id"`
	PreviousStatus string    `json:"previous_status"`
	CurrentStatus  string    `json:"current_status"`
	PaymentUpdated bool      `json:"payment_updated"`
	PayoutUpdated  bool      `json:"payout_updated"`
}

// BatchSyncResponse summarizes a batch reconciliation run.
type BatchSyncResponse struct {
	Results []SyncRemittanceResult `json:"results"`
	Skipped int                    `json:"skipped"`
}

// ManualUpdateRequest is the privileged operator override.
type ManualUpdateRequest struct {
	RemittanceID  uuid.UUID `json:"remittance_id"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	Operator      string    `json:"operator,omitempty"`
}

// WebhookRequest is an inbound connector notification.
type WebhookRequest struct {
	Connector string `json:"connector"`
	Body      []byte `json:"body"`
}

// WebhookResponse reports the remittance the webhook resolved to.
type WebhookResponse struct {
	RemittanceID uuid.UUID `json:"remittance_id"`
	Status       string    `json:"status"`
}
