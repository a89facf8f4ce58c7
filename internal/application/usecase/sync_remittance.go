package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

const (
	// syncWindow excludes remittances older than 30 days from batch runs.
	syncWindow = 30 * 24 * time.Hour
	// syncBatchLimit caps remittances per batch run.
	syncBatchLimit = 100
	// syncParallelism bounds concurrent gateway queries in a batch.
	syncParallelism = 8
)

// SyncRemittance actively re-queries the gateways for an in-flight
// remittance and re-evaluates the lifecycle transition. The batch entry
// point isolates per-item failures.
type SyncRemittance struct {
	repo      port.RemittanceRepository
	gateways  port.GatewayRegistry
	tasks     port.TaskQueue
	publisher port.EventPublisher
	logger    *slog.Logger
}

func NewSyncRemittance(
	repo port.RemittanceRepository,
	gateways port.GatewayRegistry,
	tasks port.TaskQueue,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *SyncRemittance {
	return &SyncRemittance{
		repo:      repo,
		gateways:  gateways,
		tasks:     tasks,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute reconciles a single remittance.
func (uc *SyncRemittance) Execute(ctx context.Context, remittanceID uuid.UUID) (dto.SyncRemittanceResult, error) {
	rem, err := loadRemittance(ctx, uc.repo, remittanceID, "")
	if err != nil {
		return dto.SyncRemittanceResult{}, err
	}
	return uc.reconcile(ctx, rem)
}

// ExecuteBatch reconciles every eligible in-flight remittance with bounded
// parallelism. Per-item errors are logged and counted, never aborting
// sibling work.
func (uc *SyncRemittance) ExecuteBatch(ctx context.Context) (dto.BatchSyncResponse, error) {
	cutoff := time.Now().UTC().Add(-syncWindow)
	candidates, err := uc.repo.FindForSync(ctx, port.SyncConstraints{
		CreatedAfter: cutoff,
		Limit:        syncBatchLimit,
	})
	if err != nil {
		return dto.BatchSyncResponse{}, apperr.Internal("failed to load sync candidates", err)
	}

	var (
		mu      sync.Mutex
		results []dto.SyncRemittanceResult
		skipped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncParallelism)
	for _, rem := range candidates {
		rem := rem
		g.Go(func() error {
			result, rerr := uc.reconcile(gctx, rem)
			mu.Lock()
			defer mu.Unlock()
			if rerr != nil {
				uc.logger.Warn("sync skipped remittance",
					"remittance_id", rem.ID(), "error", rerr)
				skipped++
				return nil
			}
			results = append(results, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.BatchSyncResponse{}, err
	}

	return dto.BatchSyncResponse{Results: results, Skipped: skipped}, nil
}

func (uc *SyncRemittance) reconcile(ctx context.Context, rem model.Remittance) (dto.SyncRemittanceResult, error) {
	result := dto.SyncRemittanceResult{
		RemittanceID:   rem.ID(),
		PreviousStatus: rem.Status().String(),
		CurrentStatus:  rem.Status().String(),
	}
	if !rem.Status().IsInFlight() {
		return result, nil
	}

	now := time.Now().UTC()

	switch rem.Status() {
	case valueobject.RemittanceStatusPaymentInitiated, valueobject.RemittanceStatusPaymentProcessed:
		// payment_processed still re-queries the funding leg: a reversal
		// after success must not stay invisible until payout time.
		return uc.reconcilePayment(ctx, rem, result, now)
	case valueobject.RemittanceStatusPayoutInitiated:
		return uc.reconcilePayout(ctx, rem, result, now)
	default:
		return result, nil
	}
}

// rearmPayout re-enqueues the payout continuation for a funded remittance
// whose disbursement has not started, in case the original enqueue was lost.
func (uc *SyncRemittance) rearmPayout(ctx context.Context, rem model.Remittance) {
	if rem.Status() != valueobject.RemittanceStatusPaymentProcessed {
		return
	}
	task := port.Task{Kind: port.TaskInitiatePayout, RemittanceID: rem.ID()}
	if err := uc.tasks.Enqueue(ctx, task); err != nil {
		uc.logger.Warn("failed to re-enqueue payout continuation",
			"remittance_id", rem.ID(), "error", err)
	}
}

func (uc *SyncRemittance) reconcilePayment(ctx context.Context, rem model.Remittance, result dto.SyncRemittanceResult, now time.Time) (dto.SyncRemittanceResult, error) {
	if rem.PaymentID() == "" {
		return result, nil
	}
	gateway, err := uc.gateways.PaymentGateway(rem.Connector())
	if err != nil {
		return result, err
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	status, err := gateway.QueryPayment(callCtx, rem.PaymentID())
	if err != nil {
		return result, err
	}

	payment, err := uc.repo.FindPayment(ctx, rem.ID())
	if err != nil {
		return result, err
	}
	if status == payment.Status() {
		// gateway agrees with the stored leg, nothing to write
		uc.rearmPayout(ctx, rem)
		return result, nil
	}

	payment, err = payment.RecordOutcome("", "", status, now)
	if err != nil {
		return result, err
	}
	if err := uc.repo.UpdatePayment(ctx, payment); err != nil {
		return result, err
	}
	result.PaymentUpdated = true

	switch {
	case status == valueobject.PaymentStatusSucceeded:
		if rem.Status() == valueobject.RemittanceStatusPaymentProcessed {
			uc.rearmPayout(ctx, rem)
			return result, nil
		}
		processed, err := rem.MarkPaymentProcessed(now)
		if err != nil {
			return result, err
		}
		if err := uc.repo.UpdateStatus(ctx, processed, valueobject.RemittanceStatusPaymentInitiated); err != nil {
			return result, err
		}
		drainAndPublish(ctx, uc.publisher, uc.logger, processed)
		result.CurrentStatus = processed.Status().String()

		task := port.Task{Kind: port.TaskInitiatePayout, RemittanceID: rem.ID()}
		if err := uc.tasks.Enqueue(ctx, task); err != nil {
			uc.logger.Warn("failed to enqueue payout continuation",
				"remittance_id", rem.ID(), "error", err)
		}

	case status.IsDeclined():
		failed, err := rem.FailPayment("payment "+status.String()+" reported by sync", now)
		if err != nil {
			return result, err
		}
		if err := uc.repo.UpdateStatus(ctx, failed, rem.Status()); err != nil {
			return result, err
		}
		drainAndPublish(ctx, uc.publisher, uc.logger, failed)
		result.CurrentStatus = failed.Status().String()
	}

	return result, nil
}

func (uc *SyncRemittance) reconcilePayout(ctx context.Context, rem model.Remittance, result dto.SyncRemittanceResult, now time.Time) (dto.SyncRemittanceResult, error) {
	if rem.PayoutID() == "" {
		return result, nil
	}
	gateway, err := uc.gateways.PayoutGateway(rem.Connector())
	if err != nil {
		return result, err
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	status, err := gateway.QueryPayout(callCtx, rem.PayoutID())
	if err != nil {
		return result, err
	}

	payout, err := uc.repo.FindPayout(ctx, rem.ID())
	if err != nil {
		return result, err
	}
	if status == payout.Status() {
		return result, nil
	}

	payout, err = payout.RecordOutcome("", "", status, now)
	if err != nil {
		return result, err
	}
	if err := uc.repo.UpdatePayout(ctx, payout); err != nil {
		return result, err
	}
	result.PayoutUpdated = true

	switch {
	case status == valueobject.PayoutStatusSuccess:
		completed, err := rem.Complete(now)
		if err != nil {
			return result, err
		}
		if err := uc.repo.UpdateStatus(ctx, completed, valueobject.RemittanceStatusPayoutInitiated); err != nil {
			return result, err
		}
		drainAndPublish(ctx, uc.publisher, uc.logger, completed)
		result.CurrentStatus = completed.Status().String()

	case status.IsDeclined():
		failed, err := rem.FailPayout("payout "+status.String()+" reported by sync", now)
		if err != nil {
			return result, err
		}
		if err := uc.repo.UpdateStatus(ctx, failed, valueobject.RemittanceStatusPayoutInitiated); err != nil {
			return result, err
		}
		drainAndPublish(ctx, uc.publisher, uc.logger, failed)
		result.CurrentStatus = failed.Status().String()
	}

	return result, nil
}
