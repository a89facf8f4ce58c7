package service

import (
	"time"

	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// Validator holds the pure predicates gating remittance operations. All
// methods are side-effect free.
type Validator struct{}

func NewValidator() Validator { return Validator{} }

// ValidateCreate checks the request-level fields of a new remittance. The
// aggregate constructor enforces money invariants; this covers parties and
// business fields.
func (Validator) ValidateCreate(p model.NewRemittanceParams, now time.Time) error {
	if p.Sender.Name == "" {
		return apperr.MissingField("sender_details.name")
	}
	if p.Beneficiary.Name == "" {
		return apperr.MissingField("beneficiary_details.name")
	}
	if !p.RemittanceDate.IsZero() && p.RemittanceDate.After(now) {
		return apperr.InvalidRequest("remittance date cannot be in the future")
	}
	return nil
}

// ValidateFunding checks that the funding data needed to start the payment
// leg is present.
func (Validator) ValidateFunding(fm *valueobject.FundingMethod) error {
	if fm == nil {
		return apperr.MissingField("funding_method")
	}
	if fm.Kind == "" {
		return apperr.MissingField("funding_method.kind")
	}
	if fm.Token == "" {
		return apperr.MissingField("funding_method.token")
	}
	return nil
}

// ValidatePayable reports whether the pay operation may start.
func (Validator) ValidatePayable(rem model.Remittance) error {
	if rem.Status() != valueobject.RemittanceStatusCreated {
		return apperr.PaymentForbidden(rem.Status().String())
	}
	return nil
}

// ValidateUpdatable reports whether the remittance may still be patched.
func (Validator) ValidateUpdatable(rem model.Remittance) error {
	if rem.Status() != valueobject.RemittanceStatusCreated {
		return apperr.UpdateForbidden(rem.Status().String())
	}
	return nil
}

// ValidateCancellable reports whether the cancel operation may start.
func (Validator) ValidateCancellable(rem model.Remittance) error {
	switch rem.Status() {
	case valueobject.RemittanceStatusCreated,
		valueobject.RemittanceStatusPaymentInitiated,
		valueobject.RemittanceStatusPaymentProcessed:
		return nil
	default:
		return apperr.CancellationForbidden(rem.Status().String())
	}
}
