package service

import (
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// Transformer maps canonical remittance fields to the connector-agnostic
// gateway request shapes. All methods are pure.
type Transformer struct{}

func NewTransformer() Transformer { return Transformer{} }

// FundRequest builds the funding-leg request from the remittance and its
// sender's funding method.
func (Transformer) FundRequest(rem model.Remittance) (port.FundRequest, error) {
	fm := rem.Sender().FundingMethod
	if fm == nil {
		return port.FundRequest{}, apperr.MissingField("funding_method")
	}
	return port.FundRequest{
		RemittanceID:  rem.ID(),
		Amount:        rem.Amount(),
		Currency:      rem.SourceCurrency(),
		FundingMethod: *fm,
		ReturnURL:     rem.ReturnURL(),
	}, nil
}

// DisburseRequest builds the disbursement-leg request from the beneficiary
// details. The payout-method union is matched exhaustively; adding a method
// means extending exactly this switch.
func (Transformer) DisburseRequest(rem model.Remittance) (port.DisburseRequest, error) {
	beneficiary := rem.Beneficiary()
	pm := beneficiary.PayoutMethod
	if pm == nil || pm.IsZero() {
		return port.DisburseRequest{}, apperr.MissingField("beneficiary_details.payout_method")
	}

	switch pm.Kind() {
	case valueobject.PayoutMethodBankTransfer:
		if pm.Bank() == nil {
			return port.DisburseRequest{}, apperr.MissingField("payout_method.bank_transfer")
		}
	case valueobject.PayoutMethodCard:
		if pm.Card() == nil {
			return port.DisburseRequest{}, apperr.MissingField("payout_method.card")
		}
	case valueobject.PayoutMethodWallet:
		if pm.Wallet() == nil {
			return port.DisburseRequest{}, apperr.MissingField("payout_method.wallet")
		}
	case valueobject.PayoutMethodCashPickup:
		return port.DisburseRequest{}, apperr.PayoutMethodNotSupported(string(pm.Kind()))
	default:
		return port.DisburseRequest{}, apperr.PayoutMethodNotSupported(string(pm.Kind()))
	}

	return port.DisburseRequest{
		RemittanceID: rem.ID(),
		Amount:       rem.DestinationAmount(),
		Currency:     rem.DestinationCurrency(),
		PayoutMethod: *pm,
		Beneficiary:  beneficiary,
	}, nil
}
