package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/event"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
	"github.com/zephyrpay/remit/pkg/events"
)

// MaxAmountMinorUnits caps a single remittance at 1,000,000.00 in the source
// currency (integer minor units).
const MaxAmountMinorUnits int64 = 100_000_000

// Remittance is the root aggregate of the remittance bounded context. It
// represents a cross-border transfer with a funding leg (payment) and a
// disbursement leg (payout), each executed against an external processor.
// The aggregate is immutable; transition methods return an updated copy.
type Remittance struct {
	id                  uuid.UUID
	merchantID          string
	profileID           string
	amount              int64
	sourceCurrency      string
	destinationCurrency string
	destinationAmount   int64
	exchangeRate        decimal.Decimal
	rateValidUntil      *time.Time
	sender              valueobject.SenderDetails
	beneficiary         valueobject.BeneficiaryDetails
	purpose             valueobject.RemittancePurpose
	reference           string
	remittanceDate      time.Time
	connector           string
	returnURL           string
	metadata            map[string]any
	status              valueobject.RemittanceStatus
	failureReason       string
	paymentID           string
	payoutID            string
	clientSecret        string
	version             int
	createdAt           time.Time
	updatedAt           time.Time
	domainEvents        []events.DomainEvent
}

// NewRemittanceParams carries the caller-supplied fields for NewRemittance.
// ID is optional; when uuid.Nil a fresh id is generated.
type NewRemittanceParams struct {
	ID                  uuid.UUID
	MerchantID          string
	ProfileID           string
	Amount              int64
	SourceCurrency      string
	DestinationCurrency string
	DestinationAmount   int64
	ExchangeRate        decimal.Decimal
	RateValidUntil      *time.Time
	Sender              valueobject.SenderDetails
	Beneficiary         valueobject.BeneficiaryDetails
	Purpose             valueobject.RemittancePurpose
	Reference           string
	RemittanceDate      time.Time
	Connector           string
	ReturnURL           string
	Metadata            map[string]any
}

// NewRemittance creates a remittance in CREATED status and emits
// RemittanceCreated. Request-level validation (party completeness, date
// bounds) lives in the domain validator; only aggregate invariants are
// checked here.
func NewRemittance(p NewRemittanceParams, now time.Time) (Remittance, error) {
	if p.MerchantID == "" {
		return Remittance{}, apperr.MissingField("merchant_id")
	}
	if p.Amount <= 0 {
		return Remittance{}, apperr.InvalidRequest(fmt.Sprintf("amount must be positive, got %d", p.Amount))
	}
	if p.Amount > MaxAmountMinorUnits {
		return Remittance{}, apperr.InvalidRequest(fmt.Sprintf("amount exceeds maximum of %d minor units", MaxAmountMinorUnits))
	}
	if p.SourceCurrency == "" || p.DestinationCurrency == "" {
		return Remittance{}, apperr.MissingField("currency")
	}
	if strings.EqualFold(p.SourceCurrency, p.DestinationCurrency) {
		return Remittance{}, apperr.InvalidRequest("source and destination currencies must differ")
	}
	if p.Connector == "" {
		return Remittance{}, apperr.MissingField("connector")
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	r := Remittance{
		id:                  id,
		merchantID:          p.MerchantID,
		profileID:           p.ProfileID,
		amount:              p.Amount,
		sourceCurrency:      strings.ToUpper(p.SourceCurrency),
		destinationCurrency: strings.ToUpper(p.DestinationCurrency),
		destinationAmount:   p.DestinationAmount,
		exchangeRate:        p.ExchangeRate,
		rateValidUntil:      p.RateValidUntil,
		sender:              p.Sender,
		beneficiary:         p.Beneficiary,
		purpose:             p.Purpose,
		reference:           p.Reference,
		remittanceDate:      p.RemittanceDate,
		connector:           p.Connector,
		returnURL:           p.ReturnURL,
		metadata:            p.Metadata,
		status:              valueobject.RemittanceStatusCreated,
		clientSecret:        fmt.Sprintf("%s_secret_%s", id, uuid.NewString()),
		version:             1,
		createdAt:           now,
		updatedAt:           now,
	}

	r.domainEvents = append(r.domainEvents, event.NewRemittanceCreated(
		id, p.MerchantID, p.Amount, r.sourceCurrency, r.destinationCurrency, p.Connector,
	))

	return r, nil
}

// RemittanceState carries every persisted field for ReconstructRemittance.
type RemittanceState struct {
	ID                  uuid.UUID
	MerchantID          string
	ProfileID           string
	Amount              int64
	SourceCurrency      string
	DestinationCurrency string
	DestinationAmount   int64
	ExchangeRate        decimal.Decimal
	RateValidUntil      *time.Time
	Sender              valueobject.SenderDetails
	Beneficiary         valueobject.BeneficiaryDetails
	Purpose             valueobject.RemittancePurpose
	Reference           string
	RemittanceDate      time.Time
	Connector           string
	ReturnURL           string
	Metadata            map[string]any
	Status              valueobject.RemittanceStatus
	FailureReason       string
	PaymentID           string
	PayoutID            string
	ClientSecret        string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconstructRemittance rebuilds an aggregate from persistence (no
// validation, no events).
func ReconstructRemittance(s RemittanceState) Remittance {
	return Remittance{
		id:                  s.ID,
		merchantID:          s.MerchantID,
		profileID:           s.ProfileID,
		amount:              s.Amount,
		sourceCurrency:      s.SourceCurrency,
		destinationCurrency: s.DestinationCurrency,
		destinationAmount:   s.DestinationAmount,
		exchangeRate:        s.ExchangeRate,
		rateValidUntil:      s.RateValidUntil,
		sender:              s.Sender,
		beneficiary:         s.Beneficiary,
		purpose:             s.Purpose,
		reference:           s.Reference,
		remittanceDate:      s.RemittanceDate,
		connector:           s.Connector,
		returnURL:           s.ReturnURL,
		metadata:            s.Metadata,
		status:              s.Status,
		failureReason:       s.FailureReason,
		paymentID:           s.PaymentID,
		payoutID:            s.PayoutID,
		clientSecret:        s.ClientSecret,
		version:             s.Version,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// InitiatePayment transitions CREATED -> PAYMENT_INITIATED when the funding
// leg is handed to the payment gateway.
func (r Remittance) InitiatePayment(now time.Time) (Remittance, error) {
	if r.status != valueobject.RemittanceStatusCreated {
		return Remittance{}, apperr.PaymentForbidden(r.status.String())
	}
	return r.transition(valueobject.RemittanceStatusPaymentInitiated, "", now), nil
}

// MarkPaymentProcessed transitions PAYMENT_INITIATED -> PAYMENT_PROCESSED
// once the payment gateway reports the funding leg succeeded.
func (r Remittance) MarkPaymentProcessed(now time.Time) (Remittance, error) {
	if r.status != valueobject.RemittanceStatusPaymentInitiated {
		return Remittance{}, apperr.PaymentForbidden(r.status.String())
	}
	return r.transition(valueobject.RemittanceStatusPaymentProcessed, "", now), nil
}

// FailPayment transitions {PAYMENT_INITIATED, PAYMENT_PROCESSED} -> FAILED
// on an explicit funding decline or cancellation from the gateway.
func (r Remittance) FailPayment(reason string, now time.Time) (Remittance, error) {
	if r.status != valueobject.RemittanceStatusPaymentInitiated &&
		r.status != valueobject.RemittanceStatusPaymentProcessed {
		return Remittance{}, apperr.PaymentForbidden(r.status.String())
	}
	return r.transition(valueobject.RemittanceStatusFailed, reason, now), nil
}

// InitiatePayout transitions PAYMENT_PROCESSED -> PAYOUT_INITIATED. Requiring
// PAYMENT_PROCESSED makes the auto-payout continuation naturally idempotent:
// a replayed funding-success signal finds the status already advanced.
func (r Remittance) InitiatePayout(now time.Time) (Remittance, error) {
	if r.status != valueobject.RemittanceStatusPaymentProcessed {
		return Remittance{}, apperr.Newf(apperr.KindPaymentForbidden,
			"payout initiation not allowed while remittance is %s", r.status.String())
	}
	return r.transition(valueobject.RemittanceStatusPayoutInitiated, "", now), nil
}

// Complete transitions PAYOUT_INITIATED -> COMPLETED when the payout gateway
// reports the disbursement succeeded.
func (r Remittance) Complete(now time.Time) (Remittance, error) {
	if r.status != valueobject.RemittanceStatusPayoutInitiated {
		return Remittance{}, apperr.Newf(apperr.KindPaymentForbidden,
			"completion not allowed while remittance is %s", r.status.String())
	}
	return r.transition(valueobject.RemittanceStatusCompleted, "", now), nil
}

// FailPayout transitions PAYOUT_INITIATED -> FAILED on an explicit
// disbursement decline.
func (r Remittance) FailPayout(reason string, now time.Time) (Remittance, error) {
	if r.status != valueobject.RemittanceStatusPayoutInitiated {
		return Remittance{}, apperr.Newf(apperr.KindPaymentForbidden,
			"payout failure not allowed while remittance is %s", r.status.String())
	}
	return r.transition(valueobject.RemittanceStatusFailed, reason, now), nil
}

// Cancel transitions {CREATED, PAYMENT_INITIATED, PAYMENT_PROCESSED} ->
// CANCELLED. Once the payout leg is in flight or the remittance is terminal,
// cancellation is refused.
func (r Remittance) Cancel(now time.Time) (Remittance, error) {
	switch r.status {
	case valueobject.RemittanceStatusCreated,
		valueobject.RemittanceStatusPaymentInitiated,
		valueobject.RemittanceStatusPaymentProcessed:
		return r.transition(valueobject.RemittanceStatusCancelled, "", now), nil
	default:
		return Remittance{}, apperr.CancellationForbidden(r.status.String())
	}
}

// UpdatePatch carries the mutable fields of an update request. Nil pointers
// leave the current value untouched.
type UpdatePatch struct {
	Reference   *string
	ReturnURL   *string
	Metadata    map[string]any
	Beneficiary *valueobject.BeneficiaryDetails
}

// UpdateDetails applies a patch. Only remittances still in CREATED may be
// updated; once the funding leg starts the request is frozen.
func (r Remittance) UpdateDetails(patch UpdatePatch, now time.Time) (Remittance, error) {
	if r.status != valueobject.RemittanceStatusCreated {
		return Remittance{}, apperr.UpdateForbidden(r.status.String())
	}

	next := r
	if patch.Reference != nil {
		next.reference = *patch.Reference
	}
	if patch.ReturnURL != nil {
		next.returnURL = *patch.ReturnURL
	}
	if patch.Metadata != nil {
		next.metadata = patch.Metadata
	}
	if patch.Beneficiary != nil {
		next.beneficiary = *patch.Beneficiary
	}
	next.updatedAt = now
	next.version++
	next.domainEvents = copyEvents(r.domainEvents)
	return next, nil
}

// AttachPaymentID records the funding leg's external payment id. Once set it
// is immutable.
func (r Remittance) AttachPaymentID(paymentID string) (Remittance, error) {
	if paymentID == "" {
		return Remittance{}, apperr.MissingField("payment_id")
	}
	if r.paymentID != "" && r.paymentID != paymentID {
		return Remittance{}, apperr.InvalidRequest(
			fmt.Sprintf("payment id already set to %s", r.paymentID))
	}
	next := r
	next.paymentID = paymentID
	return next, nil
}

// AttachPayoutID records the disbursement leg's external payout id. Once set
// it is immutable.
func (r Remittance) AttachPayoutID(payoutID string) (Remittance, error) {
	if payoutID == "" {
		return Remittance{}, apperr.MissingField("payout_id")
	}
	if r.payoutID != "" && r.payoutID != payoutID {
		return Remittance{}, apperr.InvalidRequest(
			fmt.Sprintf("payout id already set to %s", r.payoutID))
	}
	next := r
	next.payoutID = payoutID
	return next, nil
}

// RecordRefundRequest emits RemittanceRefundRequested for the compensating
// refund issued during cancellation. Status is not affected; the refund
// outcome is advisory.
func (r Remittance) RecordRefundRequest(externalPaymentID string) Remittance {
	next := r
	next.domainEvents = copyEvents(r.domainEvents)
	next.domainEvents = append(next.domainEvents,
		event.NewRemittanceRefundRequested(r.id, externalPaymentID, r.amount))
	return next
}

// ApplyManualStatus sets an arbitrary status bypassing every transition
// guard. Operator remediation only; emits a separately auditable event and
// never triggers refunds or payouts.
func (r Remittance) ApplyManualStatus(status valueobject.RemittanceStatus, failureReason, operator string, now time.Time) Remittance {
	next := r
	next.status = status
	if failureReason != "" {
		next.failureReason = failureReason
	}
	next.updatedAt = now
	next.version++
	next.domainEvents = copyEvents(r.domainEvents)
	next.domainEvents = append(next.domainEvents,
		event.NewRemittanceManuallyUpdated(r.id, r.status.String(), status.String(), operator))
	return next
}

func (r Remittance) transition(to valueobject.RemittanceStatus, failureReason string, now time.Time) Remittance {
	next := r
	next.status = to
	if failureReason != "" {
		next.failureReason = failureReason
	}
	next.updatedAt = now
	next.version++
	next.domainEvents = copyEvents(r.domainEvents)
	next.domainEvents = append(next.domainEvents,
		event.NewRemittanceStatusChanged(r.id, r.status.String(), to.String(), failureReason))
	return next
}

func copyEvents(evts []events.DomainEvent) []events.DomainEvent {
	return append([]events.DomainEvent{}, evts...)
}

// Accessors

func (r Remittance) ID() uuid.UUID                               { return r.id }
func (r Remittance) MerchantID() string                          { return r.merchantID }
func (r Remittance) ProfileID() string                           { return r.profileID }
func (r Remittance) Amount() int64                               { return r.amount }
func (r Remittance) SourceCurrency() string                      { return r.sourceCurrency }
func (r Remittance) DestinationCurrency() string                 { return r.destinationCurrency }
func (r Remittance) DestinationAmount() int64                    { return r.destinationAmount }
func (r Remittance) ExchangeRate() decimal.Decimal               { return r.exchangeRate }
func (r Remittance) RateValidUntil() *time.Time                  { return r.rateValidUntil }
func (r Remittance) Sender() valueobject.SenderDetails           { return r.sender }
func (r Remittance) Beneficiary() valueobject.BeneficiaryDetails { return r.beneficiary }
func (r Remittance) Purpose() valueobject.RemittancePurpose      { return r.purpose }
func (r Remittance) Reference() string                           { return r.reference }
func (r Remittance) RemittanceDate() time.Time                   { return r.remittanceDate }
func (r Remittance) Connector() string                           { return r.connector }
func (r Remittance) ReturnURL() string                           { return r.returnURL }
func (r Remittance) Metadata() map[string]any                    { return r.metadata }
func (r Remittance) Status() valueobject.RemittanceStatus        { return r.status }
func (r Remittance) FailureReason() string                       { return r.failureReason }
func (r Remittance) PaymentID() string                           { return r.paymentID }
func (r Remittance) PayoutID() string                            { return r.payoutID }
func (r Remittance) ClientSecret() string                        { return r.clientSecret }
func (r Remittance) Version() int                                { return r.version }
func (r Remittance) CreatedAt() time.Time                        { return r.createdAt }
func (r Remittance) UpdatedAt() time.Time                        { return r.updatedAt }
func (r Remittance) DomainEvents() []events.DomainEvent          { return r.domainEvents }

// ClearDomainEvents returns the collected events and a copy with events
// cleared, for the repository to drain into the outbox.
func (r Remittance) ClearDomainEvents() ([]events.DomainEvent, Remittance) {
	evts := r.domainEvents
	r.domainEvents = nil
	return evts, r
}
