package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
	"github.com/zephyrpay/remit/pkg/events"
	pgpkg "github.com/zephyrpay/remit/pkg/postgres"
)

// Compile-time interface check.
var _ port.RemittanceRepository = (*RemittanceRepo)(nil)

const uniqueViolation = "23505"

const remittanceColumns = `
	id, merchant_id, profile_id, amount, source_currency, destination_currency,
	destination_amount, exchange_rate, rate_valid_until,
	sender, beneficiary, purpose, reference, remittance_date,
	connector, return_url, metadata,
	status, failure_reason, payment_id, payout_id, client_secret,
	version, created_at, updated_at`

// RemittanceRepo implements RemittanceRepository using PostgreSQL. Writes that
// carry domain events drain them into the outbox table inside the same
// transaction.
type RemittanceRepo struct {
	pool *pgxpool.Pool
}

func NewRemittanceRepo(pool *pgxpool.Pool) *RemittanceRepo {
	return &RemittanceRepo{pool: pool}
}

func (r *RemittanceRepo) CreateWithLegs(ctx context.Context, rem model.Remittance, payment model.RemittancePayment, payout model.RemittancePayout) error {
	sender, beneficiary, metadata, err := marshalDocuments(rem)
	if err != nil {
		return err
	}

	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO remittances (`+remittanceColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		`,
			rem.ID(), rem.MerchantID(), rem.ProfileID(), rem.Amount(),
			rem.SourceCurrency(), rem.DestinationCurrency(),
			rem.DestinationAmount(), rem.ExchangeRate(), rem.RateValidUntil(),
			sender, beneficiary, rem.Purpose().String(), rem.Reference(), rem.RemittanceDate(),
			rem.Connector(), rem.ReturnURL(), metadata,
			rem.Status().String(), rem.FailureReason(), rem.PaymentID(), rem.PayoutID(), rem.ClientSecret(),
			rem.Version(), rem.CreatedAt(), rem.UpdatedAt(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return port.ErrDuplicate
			}
			return fmt.Errorf("insert remittance: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO remittance_payments (
				remittance_id, external_payment_id, connector_transaction_id,
				status, auth_type, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			payment.RemittanceID(), payment.ExternalPaymentID(), payment.ConnectorTransactionID(),
			payment.Status().String(), payment.AuthType(), payment.CreatedAt(), payment.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert payment leg: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO remittance_payouts (
				remittance_id, external_payout_id, connector_transaction_id,
				status, method_type, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			payout.RemittanceID(), payout.ExternalPayoutID(), payout.ConnectorTransactionID(),
			payout.Status().String(), payout.MethodType(), payout.CreatedAt(), payout.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert payout leg: %w", err)
		}

		return insertOutbox(ctx, tx, rem)
	})
}

func (r *RemittanceRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Remittance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+remittanceColumns+` FROM remittances WHERE id = $1
	`, id)
	return scanRemittance(row)
}

func (r *RemittanceRepo) FindByIDForMerchant(ctx context.Context, id uuid.UUID, merchantID string) (model.Remittance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+remittanceColumns+` FROM remittances WHERE id = $1 AND merchant_id = $2
	`, id, merchantID)
	return scanRemittance(row)
}

func (r *RemittanceRepo) FindByPaymentID(ctx context.Context, externalPaymentID string) (model.Remittance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+remittanceColumns+` FROM remittances WHERE payment_id = $1
	`, externalPaymentID)
	return scanRemittance(row)
}

func (r *RemittanceRepo) FindByPayoutID(ctx context.Context, externalPayoutID string) (model.Remittance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+remittanceColumns+` FROM remittances WHERE payout_id = $1
	`, externalPayoutID)
	return scanRemittance(row)
}

func (r *RemittanceRepo) UpdateStatus(ctx context.Context, rem model.Remittance, expectedStatus valueobject.RemittanceStatus) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE remittances SET
				status = $1, failure_reason = $2,
				payment_id = $3, payout_id = $4,
				version = $5, updated_at = $6
			WHERE id = $7 AND status = $8
		`,
			rem.Status().String(), rem.FailureReason(),
			rem.PaymentID(), rem.PayoutID(),
			rem.Version(), rem.UpdatedAt(),
			rem.ID(), expectedStatus.String(),
		)
		if err != nil {
			return fmt.Errorf("update remittance status: %w", err)
		}
		if result.RowsAffected() == 0 {
			return port.ErrStale
		}
		return insertOutbox(ctx, tx, rem)
	})
}

func (r *RemittanceRepo) UpdateStatusUnchecked(ctx context.Context, rem model.Remittance) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE remittances SET
				status = $1, failure_reason = $2,
				payment_id = $3, payout_id = $4,
				version = $5, updated_at = $6
			WHERE id = $7
		`,
			rem.Status().String(), rem.FailureReason(),
			rem.PaymentID(), rem.PayoutID(),
			rem.Version(), rem.UpdatedAt(),
			rem.ID(),
		)
		if err != nil {
			return fmt.Errorf("update remittance status unchecked: %w", err)
		}
		if result.RowsAffected() == 0 {
			return port.ErrNotFound
		}
		return insertOutbox(ctx, tx, rem)
	})
}

func (r *RemittanceRepo) UpdateDetails(ctx context.Context, rem model.Remittance) error {
	_, beneficiary, metadata, err := marshalDocuments(rem)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE remittances SET
			reference = $1, return_url = $2, metadata = $3, beneficiary = $4,
			version = $5, updated_at = $6
		WHERE id = $7 AND status = 'created' AND version = $5 - 1
	`,
		rem.Reference(), rem.ReturnURL(), metadata, beneficiary,
		rem.Version(), rem.UpdatedAt(),
		rem.ID(),
	)
	if err != nil {
		return fmt.Errorf("update remittance details: %w", err)
	}
	if result.RowsAffected() == 0 {
		return port.ErrStale
	}
	return nil
}

func (r *RemittanceRepo) FindPayment(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayment, error) {
	var (
		externalPaymentID      string
		connectorTransactionID string
		statusStr              string
		authType               string
		createdAt              time.Time
		updatedAt              time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT external_payment_id, connector_transaction_id, status, auth_type, created_at, updated_at
		FROM remittance_payments WHERE remittance_id = $1
	`, remittanceID).Scan(
		&externalPaymentID, &connectorTransactionID, &statusStr, &authType, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RemittancePayment{}, port.ErrNotFound
		}
		return model.RemittancePayment{}, fmt.Errorf("query payment leg: %w", err)
	}

	var status valueobject.PaymentStatus
	if statusStr != "" {
		status, err = valueobject.NewPaymentStatus(statusStr)
		if err != nil {
			return model.RemittancePayment{}, fmt.Errorf("stored payment status: %w", err)
		}
	}
	return model.ReconstructRemittancePayment(
		remittanceID, externalPaymentID, connectorTransactionID, status, authType, createdAt, updatedAt,
	), nil
}

func (r *RemittanceRepo) UpdatePayment(ctx context.Context, payment model.RemittancePayment) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE remittance_payments SET
			external_payment_id = $1, connector_transaction_id = $2,
			status = $3, auth_type = $4, updated_at = $5
		WHERE remittance_id = $6
	`,
		payment.ExternalPaymentID(), payment.ConnectorTransactionID(),
		payment.Status().String(), payment.AuthType(), payment.UpdatedAt(),
		payment.RemittanceID(),
	)
	if err != nil {
		return fmt.Errorf("update payment leg: %w", err)
	}
	if result.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (r *RemittanceRepo) FindPayout(ctx context.Context, remittanceID uuid.UUID) (model.RemittancePayout, error) {
	var (
		externalPayoutID       string
		connectorTransactionID string
		statusStr              string
		methodType             string
		createdAt              time.Time
		updatedAt              time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT external_payout_id, connector_transaction_id, status, method_type, created_at, updated_at
		FROM remittance_payouts WHERE remittance_id = $1
	`, remittanceID).Scan(
		&externalPayoutID, &connectorTransactionID, &statusStr, &methodType, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RemittancePayout{}, port.ErrNotFound
		}
		return model.RemittancePayout{}, fmt.Errorf("query payout leg: %w", err)
	}

	var status valueobject.PayoutStatus
	if statusStr != "" {
		status, err = valueobject.NewPayoutStatus(statusStr)
		if err != nil {
			return model.RemittancePayout{}, fmt.Errorf("stored payout status: %w", err)
		}
	}
	return model.ReconstructRemittancePayout(
		remittanceID, externalPayoutID, connectorTransactionID, status, methodType, createdAt, updatedAt,
	), nil
}

func (r *RemittanceRepo) UpdatePayout(ctx context.Context, payout model.RemittancePayout) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE remittance_payouts SET
			external_payout_id = $1, connector_transaction_id = $2,
			status = $3, method_type = $4, updated_at = $5
		WHERE remittance_id = $6
	`,
		payout.ExternalPayoutID(), payout.ConnectorTransactionID(),
		payout.Status().String(), payout.MethodType(), payout.UpdatedAt(),
		payout.RemittanceID(),
	)
	if err != nil {
		return fmt.Errorf("update payout leg: %w", err)
	}
	if result.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (r *RemittanceRepo) List(ctx context.Context, filters port.ListFilters, limit, offset int) ([]model.Remittance, error) {
	where, args := buildFilters(filters)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM remittances
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, remittanceColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("query remittances: %w", err)
	}
	defer rows.Close()

	var items []model.Remittance
	for rows.Next() {
		rem, err := scanRemittance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rem)
	}
	return items, rows.Err()
}

func (r *RemittanceRepo) Count(ctx context.Context, filters port.ListFilters) (int, error) {
	where, args := buildFilters(filters)

	var total int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM remittances "+where, args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count remittances: %w", err)
	}
	return total, nil
}

func (r *RemittanceRepo) FindForSync(ctx context.Context, constraints port.SyncConstraints) ([]model.Remittance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+remittanceColumns+` FROM remittances
		WHERE status IN ('payment_initiated', 'payment_processed', 'payout_initiated')
			AND created_at >= $1
		ORDER BY updated_at ASC
		LIMIT $2
	`, constraints.CreatedAfter, constraints.Limit)
	if err != nil {
		return nil, fmt.Errorf("query sync candidates: %w", err)
	}
	defer rows.Close()

	var items []model.Remittance
	for rows.Next() {
		rem, err := scanRemittance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rem)
	}
	return items, rows.Err()
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func buildFilters(filters port.ListFilters) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.MerchantID != "" {
		add("merchant_id = $%d", filters.MerchantID)
	}
	if filters.ProfileID != "" {
		add("profile_id = $%d", filters.ProfileID)
	}
	if filters.Status != nil {
		add("status = $%d", filters.Status.String())
	}
	if filters.Connector != "" {
		add("connector = $%d", filters.Connector)
	}
	if filters.SourceCurrency != "" {
		add("source_currency = $%d", filters.SourceCurrency)
	}
	if filters.DestinationCurrency != "" {
		add("destination_currency = $%d", filters.DestinationCurrency)
	}
	if filters.CreatedAfter != nil {
		add("created_at >= $%d", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		add("created_at <= $%d", *filters.CreatedBefore)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func marshalDocuments(rem model.Remittance) (sender, beneficiary, metadata []byte, err error) {
	sender, err = json.Marshal(rem.Sender())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal sender: %w", err)
	}
	beneficiary, err = json.Marshal(rem.Beneficiary())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal beneficiary: %w", err)
	}
	if rem.Metadata() != nil {
		metadata, err = json.Marshal(rem.Metadata())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal metadata: %w", err)
		}
	}
	return sender, beneficiary, metadata, nil
}

func insertOutbox(ctx context.Context, tx pgx.Tx, rem model.Remittance) error {
	for _, evt := range rem.DomainEvents() {
		entry := events.NewOutboxEntry(evt)
		_, err := tx.Exec(ctx, `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType, entry.Payload, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
	}
	return nil
}

func scanRemittance(row pgx.Row) (model.Remittance, error) {
	var (
		id                  uuid.UUID
		merchantID          string
		profileID           string
		amount              int64
		sourceCurrency      string
		destinationCurrency string
		destinationAmount   int64
		exchangeRate        decimal.Decimal
		rateValidUntil      *time.Time
		senderJSON          []byte
		beneficiaryJSON     []byte
		purposeStr          string
		reference           string
		remittanceDate      time.Time
		connector           string
		returnURL           string
		metadataJSON        []byte
		statusStr           string
		failureReason       string
		paymentID           string
		payoutID            string
		clientSecret        string
		version             int
		createdAt           time.Time
		updatedAt           time.Time
	)

	err := row.Scan(
		&id, &merchantID, &profileID, &amount, &sourceCurrency, &destinationCurrency,
		&destinationAmount, &exchangeRate, &rateValidUntil,
		&senderJSON, &beneficiaryJSON, &purposeStr, &reference, &remittanceDate,
		&connector, &returnURL, &metadataJSON,
		&statusStr, &failureReason, &paymentID, &payoutID, &clientSecret,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Remittance{}, port.ErrNotFound
		}
		return model.Remittance{}, fmt.Errorf("scan remittance: %w", err)
	}

	status, err := valueobject.NewRemittanceStatus(statusStr)
	if err != nil {
		return model.Remittance{}, fmt.Errorf("stored remittance status: %w", err)
	}

	var sender valueobject.SenderDetails
	if err := json.Unmarshal(senderJSON, &sender); err != nil {
		return model.Remittance{}, fmt.Errorf("unmarshal sender: %w", err)
	}
	var beneficiary valueobject.BeneficiaryDetails
	if err := json.Unmarshal(beneficiaryJSON, &beneficiary); err != nil {
		return model.Remittance{}, fmt.Errorf("unmarshal beneficiary: %w", err)
	}
	var metadata map[string]any
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return model.Remittance{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	var purpose valueobject.RemittancePurpose
	if purposeStr != "" {
		purpose, err = valueobject.NewRemittancePurpose(purposeStr)
		if err != nil {
			return model.Remittance{}, fmt.Errorf("stored remittance purpose: %w", err)
		}
	}

	return model.ReconstructRemittance(model.RemittanceState{
		ID:                  id,
		MerchantID:          merchantID,
		ProfileID:           profileID,
		Amount:              amount,
		SourceCurrency:      sourceCurrency,
		DestinationCurrency: destinationCurrency,
		DestinationAmount:   destinationAmount,
		ExchangeRate:        exchangeRate,
		RateValidUntil:      rateValidUntil,
		Sender:              sender,
		Beneficiary:         beneficiary,
		Purpose:             purpose,
		Reference:           reference,
		RemittanceDate:      remittanceDate,
		Connector:           connector,
		ReturnURL:           returnURL,
		Metadata:            metadata,
		Status:              status,
		FailureReason:       failureReason,
		PaymentID:           paymentID,
		PayoutID:            payoutID,
		ClientSecret:        clientSecret,
		Version:             version,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}), nil
}
