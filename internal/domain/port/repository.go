package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

var (
	// ErrNotFound is returned when no remittance matches the lookup.
	ErrNotFound = errors.New("remittance not found")
	// ErrDuplicate is returned when an insert collides with an existing
	// remittance id for the same merchant.
	ErrDuplicate = errors.New("remittance already exists")
	// ErrStale is returned when a conditional update matched zero rows
	// because the expected prior status no longer holds.
	ErrStale = errors.New("remittance was modified concurrently")
)

// ListFilters narrows a merchant-scoped listing.
type ListFilters struct {
	MerchantID          string
	ProfileID           string
	Status              *valueobject.RemittanceStatus
	Connector           string
	SourceCurrency      string
	DestinationCurrency string
	CreatedAfter        *time.Time
	CreatedBefore       *time.Time
}

// SyncConstraints bounds a batch reconciliation run.
type SyncConstraints struct {
	// CreatedAfter is a created_at lower bound: remittances created
	// before this cutoff are excluded from the run.
	CreatedAfter time.Time
	// Limit caps the number of remittances returned.
	Limit int
}

// RemittanceRepository defines persistence for the remittance aggregate and
// its two leg records. Every write drains the aggregate's domain events into
// the outbox inside the same transaction.
type RemittanceRepository interface {
	// CreateWithLegs atomically inserts the remittance plus its empty
	// payment and payout records. Returns ErrDuplicate if the id already
	// exists for the merchant.
	CreateWithLegs(ctx context.Context, rem model.Remittance, payment model.RemittancePayment, payout model.RemittancePayout) error

	// FindByID loads a remittance by id.
	FindByID(ctx context.Context, id uuid.UUID) (model.Remittance, error)

	// FindByIDForMerchant loads a remittance scoped to a merchant.
	FindByIDForMerchant(ctx context.Context, id uuid.UUID, merchantID string) (model.Remittance, error)

	// FindByPaymentID resolves the remittance owning the given external
	// payment id (webhook lookups).
	FindByPaymentID(ctx context.Context, externalPaymentID string) (model.Remittance, error)

	// FindByPayoutID resolves the remittance owning the given external
	// payout id (webhook lookups).
	FindByPayoutID(ctx context.Context, externalPayoutID string) (model.Remittance, error)

	// UpdateStatus conditionally persists a transitioned aggregate: the row
	// is updated only while its stored status still equals expectedStatus.
	// Zero rows matched returns ErrStale.
	UpdateStatus(ctx context.Context, rem model.Remittance, expectedStatus valueobject.RemittanceStatus) error

	// UpdateStatusUnchecked persists the aggregate regardless of the stored
	// status. Reserved for operator remediation.
	UpdateStatusUnchecked(ctx context.Context, rem model.Remittance) error

	// UpdateDetails persists the mutable request fields of a remittance
	// still in CREATED.
	UpdateDetails(ctx context.Context, rem model.Remittance) error

	// FindPayment loads the funding-leg record.
	FindPayment(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayment, error)

	// UpdatePayment persists the funding-leg record.
	UpdatePayment(ctx context.Context, payment model.RemittancePayment) error

	// FindPayout loads the disbursement-leg record.
	FindPayout(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayout, error)

	// UpdatePayout persists the disbursement-leg record.
	UpdatePayout(ctx context.Context, payout model.RemittancePayout) error

	// List returns a page of remittances matching the filters.
	List(ctx context.Context, filters ListFilters, limit, offset int) ([]model.Remittance, error)

	// Count returns the total number of remittances matching the filters,
	// independent of pagination.
	Count(ctx context.Context, filters ListFilters) (int, error)

	// FindForSync returns in-flight remittances eligible for batch
	// reconciliation.
	FindForSync(ctx context.Context, constraints SyncConstraints) ([]model.Remittance, error)
}
