package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
	"github.com/zephyrpay/remit/pkg/events"
)

// --- Mock implementations ---

type mockRemittanceRepository struct {
	mu sync.Mutex

	createFunc          func(ctx context.Context, rem model.Remittance, payment model.RemittancePayment, payout model.RemittancePayout) error
	findByIDFunc        func(ctx context.Context, id uuid.UUID) (model.Remittance, error)
	findByPaymentIDFunc func(ctx context.Context, externalPaymentID string) (model.Remittance, error)
	findByPayoutIDFunc  func(ctx context.Context, externalPayoutID string) (model.Remittance, error)
	updateStatusFunc    func(ctx context.Context, rem model.Remittance, expected valueobject.RemittanceStatus) error
	updateDetailsFunc   func(ctx context.Context, rem model.Remittance) error
	findPaymentFunc     func(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayment, error)
	findPayoutFunc      func(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayout, error)
	listFunc            func(ctx context.Context, filters port.ListFilters, limit, offset int) ([]model.Remittance, error)
	countFunc           func(ctx context.Context, filters port.ListFilters) (int, error)
	findForSyncFunc     func(ctx context.Context, constraints port.SyncConstraints) ([]model.Remittance, error)

	created          []model.Remittance
	statusUpdates    []model.Remittance
	uncheckedUpdates []model.Remittance
	detailUpdates    []model.Remittance
	paymentUpdates   []model.RemittancePayment
	payoutUpdates    []model.RemittancePayout
}

func (m *mockRemittanceRepository) CreateWithLegs(ctx context.Context, rem model.Remittance, payment model.RemittancePayment, payout model.RemittancePayout) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, rem, payment, payout)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, rem)
	return nil
}

func (m *mockRemittanceRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Remittance, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Remittance{}, port.ErrNotFound
}

func (m *mockRemittanceRepository) FindByIDForMerchant(ctx context.Context, id uuid.UUID, merchantID string) (model.Remittance, error) {
	rem, err := m.FindByID(ctx, id)
	if err != nil {
		return model.Remittance{}, err
	}
	if rem.MerchantID() != merchantID {
		return model.Remittance{}, port.ErrNotFound
	}
	return rem, nil
}

func (m *mockRemittanceRepository) FindByPaymentID(ctx context.Context, externalPaymentID string) (model.Remittance, error) {
	if m.findByPaymentIDFunc != nil {
		return m.findByPaymentIDFunc(ctx, externalPaymentID)
	}
	return model.Remittance{}, port.ErrNotFound
}

func (m *mockRemittanceRepository) FindByPayoutID(ctx context.Context, externalPayoutID string) (model.Remittance, error) {
	if m.findByPayoutIDFunc != nil {
		return m.findByPayoutIDFunc(ctx, externalPayoutID)
	}
	return model.Remittance{}, port.ErrNotFound
}

func (m *mockRemittanceRepository) UpdateStatus(ctx context.Context, rem model.Remittance, expected valueobject.RemittanceStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, rem, expected)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusUpdates = append(m.statusUpdates, rem)
	return nil
}

func (m *mockRemittanceRepository) UpdateStatusUnchecked(ctx context.Context, rem model.Remittance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uncheckedUpdates = append(m.uncheckedUpdates, rem)
	return nil
}

func (m *mockRemittanceRepository) UpdateDetails(ctx context.Context, rem model.Remittance) error {
	if m.updateDetailsFunc != nil {
		return m.updateDetailsFunc(ctx, rem)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailUpdates = append(m.detailUpdates, rem)
	return nil
}

func (m *mockRemittanceRepository) FindPayment(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayment, error) {
	if m.findPaymentFunc != nil {
		return m.findPaymentFunc(ctx, remittanceID)
	}
	return model.NewRemittancePayment(remittanceID, time.Now().UTC()), nil
}

func (m *mockRemittanceRepository) UpdatePayment(ctx context.Context, payment model.RemittancePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paymentUpdates = append(m.paymentUpdates, payment)
	return nil
}

func (m *mockRemittanceRepository) FindPayout(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayout, error) {
	if m.findPayoutFunc != nil {
		return m.findPayoutFunc(ctx, remittanceID)
	}
	return model.NewRemittancePayout(remittanceID, time.Now().UTC()), nil
}

func (m *mockRemittanceRepository) UpdatePayout(ctx context.Context, payout model.RemittancePayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payoutUpdates = append(m.payoutUpdates, payout)
	return nil
}

func (m *mockRemittanceRepository) List(ctx context.Context, filters port.ListFilters, limit, offset int) ([]model.Remittance, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filters, limit, offset)
	}
	return nil, nil
}

func (m *mockRemittanceRepository) Count(ctx context.Context, filters port.ListFilters) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filters)
	}
	return 0, nil
}

func (m *mockRemittanceRepository) FindForSync(ctx context.Context, constraints port.SyncConstraints) ([]model.Remittance, error) {
	if m.findForSyncFunc != nil {
		return m.findForSyncFunc(ctx, constraints)
	}
	return nil, nil
}

type mockPaymentGateway struct {
	fundFunc   func(ctx context.Context, req port.FundRequest) (port.FundResult, error)
	refundFunc func(ctx context.Context, externalPaymentID string, amount int64, reason string) (port.RefundResult, error)
	queryFunc  func(ctx context.Context, externalPaymentID string) (valueobject.PaymentStatus, error)

	mu          sync.Mutex
	fundCalls   []port.FundRequest
	refundCalls []string
}

func (m *mockPaymentGateway) Fund(ctx context.Context, req port.FundRequest) (port.FundResult, error) {
	m.mu.Lock()
	m.fundCalls = append(m.fundCalls, req)
	m.mu.Unlock()
	if m.fundFunc != nil {
		return m.fundFunc(ctx, req)
	}
	return port.FundResult{ExternalPaymentID: "pay_mock", Status: valueobject.PaymentStatusSucceeded}, nil
}

func (m *mockPaymentGateway) Refund(ctx context.Context, externalPaymentID string, amount int64, reason string) (port.RefundResult, error) {
	m.mu.Lock()
	m.refundCalls = append(m.refundCalls, externalPaymentID)
	m.mu.Unlock()
	if m.refundFunc != nil {
		return m.refundFunc(ctx, externalPaymentID, amount, reason)
	}
	return port.RefundResult{Status: valueobject.PaymentStatusSucceeded}, nil
}

func (m *mockPaymentGateway) QueryPayment(ctx context.Context, externalPaymentID string) (valueobject.PaymentStatus, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, externalPaymentID)
	}
	return valueobject.PaymentStatusPending, nil
}

type mockPayoutGateway struct {
	disburseFunc func(ctx context.Context, req port.DisburseRequest) (port.DisburseResult, error)
	queryFunc    func(ctx context.Context, externalPayoutID string) (valueobject.PayoutStatus, error)

	mu            sync.Mutex
	disburseCalls []port.DisburseRequest
}

func (m *mockPayoutGateway) Disburse(ctx context.Context, req port.DisburseRequest) (port.DisburseResult, error) {
	m.mu.Lock()
	m.disburseCalls = append(m.disburseCalls, req)
	m.mu.Unlock()
	if m.disburseFunc != nil {
		return m.disburseFunc(ctx, req)
	}
	return port.DisburseResult{ExternalPayoutID: "po_mock", Status: valueobject.PayoutStatusSuccess}, nil
}

func (m *mockPayoutGateway) QueryPayout(ctx context.Context, externalPayoutID string) (valueobject.PayoutStatus, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, externalPayoutID)
	}
	return valueobject.PayoutStatusPending, nil
}

type mockGatewayRegistry struct {
	payment *mockPaymentGateway
	payout  *mockPayoutGateway
}

func (m *mockGatewayRegistry) PaymentGateway(connector string) (port.PaymentGateway, error) {
	if m.payment == nil {
		return nil, fmt.Errorf("no payment gateway for connector %s", connector)
	}
	return m.payment, nil
}

func (m *mockGatewayRegistry) PayoutGateway(connector string) (port.PayoutGateway, error) {
	if m.payout == nil {
		return nil, fmt.Errorf("no payout gateway for connector %s", connector)
	}
	return m.payout, nil
}

type mockTaskQueue struct {
	enqueueFunc func(ctx context.Context, task port.Task) error

	mu       sync.Mutex
	enqueued []port.Task
}

func (m *mockTaskQueue) Enqueue(ctx context.Context, task port.Task) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, task)
	return nil
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, topic string, evts ...events.DomainEvent) error

	mu        sync.Mutex
	published []events.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, topic string, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evts...)
	return nil
}

type mockQuoteService struct {
	rateFunc func(ctx context.Context, sourceCurrency, destinationCurrency string, amount int64, connector string) (port.RateQuote, error)
}

func (m *mockQuoteService) Rate(ctx context.Context, sourceCurrency, destinationCurrency string, amount int64, connector string) (port.RateQuote, error) {
	if m.rateFunc != nil {
		return m.rateFunc(ctx, sourceCurrency, destinationCurrency, amount, connector)
	}
	return port.RateQuote{Rate: decimal.NewFromFloat(0.85), Fee: 20}, nil
}

type mockWebhookTranslator struct {
	translateFunc func(connector string, body []byte) (port.WebhookEvent, error)
}

func (m *mockWebhookTranslator) Translate(connector string, body []byte) (port.WebhookEvent, error) {
	if m.translateFunc != nil {
		return m.translateFunc(connector, body)
	}
	return port.WebhookEvent{}, fmt.Errorf("unknown connector: %s", connector)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
