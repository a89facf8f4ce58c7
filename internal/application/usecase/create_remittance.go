package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/service"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// CreateRemittance accepts a new remittance: prices it through the quote
// service, persists the aggregate with both empty leg records atomically and
// optionally schedules the funding leg.
type CreateRemittance struct {
	repo      port.RemittanceRepository
	quotes    port.QuoteService
	tasks     port.TaskQueue
	publisher port.EventPublisher
	validator service.Validator
	logger    *slog.Logger
}

func NewCreateRemittance(
	repo port.RemittanceRepository,
	quotes port.QuoteService,
	tasks port.TaskQueue,
	publisher port.EventPublisher,
	validator service.Validator,
	logger *slog.Logger,
) *CreateRemittance {
	return &CreateRemittance{
		repo:      repo,
		quotes:    quotes,
		tasks:     tasks,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

func (uc *CreateRemittance) Execute(ctx context.Context, req dto.CreateRemittanceRequest) (dto.RemittanceResponse, error) {
	now := time.Now().UTC()

	var purpose valueobject.RemittancePurpose
	if req.Purpose != "" {
		p, err := valueobject.NewRemittancePurpose(req.Purpose)
		if err != nil {
			return dto.RemittanceResponse{}, apperr.InvalidRequest(err.Error())
		}
		purpose = p
	}

	params := model.NewRemittanceParams{
		ID:                  req.ID,
		MerchantID:          req.MerchantID,
		ProfileID:           req.ProfileID,
		Amount:              req.Amount,
		SourceCurrency:      req.SourceCurrency,
		DestinationCurrency: req.DestinationCurrency,
		Sender:              req.Sender,
		Beneficiary:         req.Beneficiary,
		Purpose:             purpose,
		Reference:           req.Reference,
		RemittanceDate:      req.RemittanceDate,
		Connector:           req.Connector,
		ReturnURL:           req.ReturnURL,
		Metadata:            req.Metadata,
	}
	if err := uc.validator.ValidateCreate(params, now); err != nil {
		return dto.RemittanceResponse{}, err
	}

	quote, err := uc.quotes.Rate(ctx, req.SourceCurrency, req.DestinationCurrency, req.Amount, req.Connector)
	if err != nil {
		return dto.RemittanceResponse{}, apperr.Internal("quote lookup failed", err)
	}
	validUntil := now.Add(rateValidity)
	params.ExchangeRate = quote.Rate
	params.DestinationAmount = destinationAmount(req.Amount, quote.Rate)
	params.RateValidUntil = &validUntil

	rem, err := model.NewRemittance(params, now)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}

	payment := model.NewRemittancePayment(rem.ID(), now)
	payout := model.NewRemittancePayout(rem.ID(), now)

	if err := uc.repo.CreateWithLegs(ctx, rem, payment, payout); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return dto.RemittanceResponse{}, apperr.Duplicate(rem.ID().String())
		}
		return dto.RemittanceResponse{}, apperr.Internal("failed to persist remittance", err)
	}

	if evts := rem.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, TopicRemittances, evts...); err != nil {
			uc.logger.Warn("failed to publish remittance events",
				"remittance_id", rem.ID(), "error", err)
		}
	}

	if req.AutoProcess && req.Sender.FundingMethod != nil {
		task := port.Task{Kind: port.TaskPayRemittance, RemittanceID: rem.ID()}
		if err := uc.tasks.Enqueue(ctx, task); err != nil {
			// auto-process failures surface via retrieve/sync, never here
			uc.logger.Error("failed to enqueue auto-process task",
				"remittance_id", rem.ID(), "error", err)
		}
	}

	return toRemittanceResponse(rem, true), nil
}
