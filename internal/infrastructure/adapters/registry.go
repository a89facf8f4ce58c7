package adapters

import (
	"fmt"

	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/port"
)

// Compile-time interface check.
var _ port.GatewayRegistry = (*Registry)(nil)

// Registry resolves connector names to their gateway implementations. A
// connector may support funding, disbursement, or both.
type Registry struct {
	payments map[string]port.PaymentGateway
	payouts  map[string]port.PayoutGateway
}

func NewRegistry() *Registry {
	return &Registry{
		payments: make(map[string]port.PaymentGateway),
		payouts:  make(map[string]port.PayoutGateway),
	}
}

// RegisterPayment binds a payment gateway to a connector name.
func (r *Registry) RegisterPayment(connector string, gateway port.PaymentGateway) {
	r.payments[connector] = gateway
}

// RegisterPayout binds a payout gateway to a connector name.
func (r *Registry) RegisterPayout(connector string, gateway port.PayoutGateway) {
	r.payouts[connector] = gateway
}

func (r *Registry) PaymentGateway(connector string) (port.PaymentGateway, error) {
	gateway, ok := r.payments[connector]
	if !ok {
		return nil, apperr.InvalidRequest(fmt.Sprintf("connector %q does not support funding", connector))
	}
	return gateway, nil
}

func (r *Registry) PayoutGateway(connector string) (port.PayoutGateway, error) {
	gateway, ok := r.payouts[connector]
	if !ok {
		return nil, apperr.InvalidRequest(fmt.Sprintf("connector %q does not support disbursement", connector))
	}
	return gateway, nil
}
