package usecase

import (
	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/model"
)

// Kafka topic all remittance domain events are published to.
const TopicRemittances = "zephyrpay.remittances"

func toRemittanceResponse(rem model.Remittance, includeSecret bool) dto.RemittanceResponse {
	resp := dto.RemittanceResponse{
		ID:                  rem.ID(),
		MerchantID:          rem.MerchantID(),
		ProfileID:           rem.ProfileID(),
		Status:              rem.Status().String(),
		Amount:              rem.Amount(),
		SourceCurrency:      rem.SourceCurrency(),
		DestinationCurrency: rem.DestinationCurrency(),
		DestinationAmount:   rem.DestinationAmount(),
		Sender:              rem.Sender(),
		Beneficiary:         rem.Beneficiary(),
		Purpose:             rem.Purpose().String(),
		Reference:           rem.Reference(),
		Connector:           rem.Connector(),
		ReturnURL:           rem.ReturnURL(),
		FailureReason:       rem.FailureReason(),
		PaymentID:           rem.PaymentID(),
		PayoutID:            rem.PayoutID(),
		CreatedAt:           rem.CreatedAt(),
		UpdatedAt:           rem.UpdatedAt(),
	}
	if !rem.ExchangeRate().IsZero() {
		resp.ExchangeRate = rem.ExchangeRate().String()
	}
	if includeSecret {
		resp.ClientSecret = rem.ClientSecret()
	}
	return resp
}

func toPaymentLegResponse(p model.RemittancePayment) *dto.PaymentLegResponse {
	return &dto.PaymentLegResponse{
		ExternalPaymentID:      p.ExternalPaymentID(),
		ConnectorTransactionID: p.ConnectorTransactionID(),
		Status:                 p.Status().String(),
		UpdatedAt:              p.UpdatedAt(),
	}
}

func toPayoutLegResponse(p model.RemittancePayout) *dto.PayoutLegResponse {
	return &dto.PayoutLegResponse{
		ExternalPayoutID:       p.ExternalPayoutID(),
		ConnectorTransactionID: p.ConnectorTransactionID(),
		Status:                 p.Status().String(),
		MethodType:             p.MethodType(),
		UpdatedAt:              p.UpdatedAt(),
	}
}
