package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
)

// loadRemittance loads by id, merchant-scoped when merchantID is set, and
// maps repository sentinels into the error taxonomy.
func loadRemittance(ctx context.Context, repo port.RemittanceRepository, id uuid.UUID, merchantID string) (model.Remittance, error) {
	var (
		rem model.Remittance
		err error
	)
	if merchantID != "" {
		rem, err = repo.FindByIDForMerchant(ctx, id, merchantID)
	} else {
		rem, err = repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return model.Remittance{}, apperr.NotFound(id.String())
		}
		return model.Remittance{}, apperr.Internal("failed to load remittance", err)
	}
	return rem, nil
}

// drainAndPublish publishes the aggregate's collected events and returns a
// copy with events cleared. Publish failures are logged; the outbox written
// alongside the state change guarantees eventual delivery.
func drainAndPublish(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, rem model.Remittance) model.Remittance {
	evts, cleared := rem.ClearDomainEvents()
	if len(evts) == 0 {
		return cleared
	}
	if err := publisher.Publish(ctx, TopicRemittances, evts...); err != nil {
		logger.Warn("failed to publish remittance events",
			"remittance_id", rem.ID(), "error", err)
	}
	return cleared
}
