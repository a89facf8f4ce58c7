// Package rest exposes the remittance API over HTTP.
//
// Handlers translate JSON requests into application use case calls and
// map taxonomy errors onto HTTP status codes. Merchant identity arrives
// in the X-Merchant-Id header; end customers authenticate individual
// remittances with the client_secret query parameter instead.
package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/application/usecase"
	"github.com/zephyrpay/remit/internal/domain/apperr"
)

const merchantHeader = "X-Merchant-Id"

// RemittanceHandler serves the remittance endpoints.
type RemittanceHandler struct {
	create       *usecase.CreateRemittance
	pay          *usecase.PayRemittance
	retrieve     *usecase.RetrieveRemittance
	update       *usecase.UpdateRemittance
	cancel       *usecase.CancelRemittance
	list         *usecase.ListRemittances
	quote        *usecase.QuoteRemittance
	webhook      *usecase.ProcessWebhook
	sync         *usecase.SyncRemittance
	manualUpdate *usecase.ManualUpdate
	logger       *slog.Logger
}

// NewRemittanceHandler creates a handler wired to the application layer.
func NewRemittanceHandler(
	create *usecase.CreateRemittance,
	pay *usecase.PayRemittance,
	retrieve *usecase.RetrieveRemittance,
	update *usecase.UpdateRemittance,
	cancel *usecase.CancelRemittance,
	list *usecase.ListRemittances,
	quote *usecase.QuoteRemittance,
	webhook *usecase.ProcessWebhook,
	sync *usecase.SyncRemittance,
	manualUpdate *usecase.ManualUpdate,
	logger *slog.Logger,
) *RemittanceHandler {
	return &RemittanceHandler{
		create:       create,
		pay:          pay,
		retrieve:     retrieve,
		update:       update,
		cancel:       cancel,
		list:         list,
		quote:        quote,
		webhook:      webhook,
		sync:         sync,
		manualUpdate: manualUpdate,
		logger:       logger,
	}
}

// CreateRemittance handles POST /api/v1/remittances.
func (h *RemittanceHandler) CreateRemittance(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRemittanceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, err.Error())
		return
	}
	if req.MerchantID == "" {
		req.MerchantID = r.Header.Get(merchantHeader)
	}

	resp, err := h.create.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Quote handles POST /api/v1/quotes.
func (h *RemittanceHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, err.Error())
		return
	}

	resp, err := h.quote.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRemittance handles GET /api/v1/remittances/{id}.
func (h *RemittanceHandler) GetRemittance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.remittanceID(w, r)
	if !ok {
		return
	}

	req := dto.RetrieveRemittanceRequest{
		RemittanceID: id,
		MerchantID:   r.Header.Get(merchantHeader),
		ClientSecret: r.URL.Query().Get("client_secret"),
		ForceSync:    r.URL.Query().Get("force_sync") == "true",
	}

	resp, err := h.retrieve.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRemittances handles GET /api/v1/remittances.
func (h *RemittanceHandler) ListRemittances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.ListRemittancesRequest{
		MerchantID:          r.Header.Get(merchantHeader),
		ProfileID:           q.Get("profile_id"),
		Status:              q.Get("status"),
		Connector:           q.Get("connector"),
		SourceCurrency:      q.Get("source_currency"),
		DestinationCurrency: q.Get("destination_currency"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, "limit must be an integer")
			return
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, "offset must be an integer")
			return
		}
		req.Offset = n
	}
	for param, dst := range map[string]**time.Time{
		"created_after":  &req.CreatedAfter,
		"created_before": &req.CreatedBefore,
	} {
		if v := q.Get(param); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData,
					fmt.Sprintf("%s must be RFC 3339", param))
				return
			}
			*dst = &t
		}
	}

	resp, err := h.list.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateRemittance handles PATCH /api/v1/remittances/{id}.
func (h *RemittanceHandler) UpdateRemittance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.remittanceID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRemittanceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, err.Error())
		return
	}
	req.RemittanceID = id
	req.MerchantID = r.Header.Get(merchantHeader)

	resp, err := h.update.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PayRemittance handles POST /api/v1/remittances/{id}/pay.
func (h *RemittanceHandler) PayRemittance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.remittanceID(w, r)
	if !ok {
		return
	}

	req := dto.PayRemittanceRequest{
		RemittanceID: id,
		MerchantID:   r.Header.Get(merchantHeader),
	}
	// The body is optional; callers may rely on the funding method from
	// create time.
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, err.Error())
			return
		}
		req.RemittanceID = id
		req.MerchantID = r.Header.Get(merchantHeader)
	}

	resp, err := h.pay.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelRemittance handles POST /api/v1/remittances/{id}/cancel.
func (h *RemittanceHandler) CancelRemittance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.remittanceID(w, r)
	if !ok {
		return
	}

	req := dto.CancelRemittanceRequest{
		RemittanceID: id,
		MerchantID:   r.Header.Get(merchantHeader),
	}
	if r.ContentLength != 0 {
		var body struct {
			Reason string `json:"reason"`
		}
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, err.Error())
			return
		}
		req.Reason = body.Reason
	}

	resp, err := h.cancel.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Webhook handles POST /webhooks/{connector}.
func (h *RemittanceHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	connector := chi.URLParam(r, "connector")
	if connector == "" {
		writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, "connector is required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, "failed to read webhook body")
		return
	}
	defer r.Body.Close()

	resp, err := h.webhook.Execute(r.Context(), dto.WebhookRequest{Connector: connector, Body: body})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SyncRemittance handles POST /internal/remittances/{id}/sync.
func (h *RemittanceHandler) SyncRemittance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.remittanceID(w, r)
	if !ok {
		return
	}

	resp, err := h.sync.Execute(r.Context(), id)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// BatchSync handles POST /internal/sync.
func (h *RemittanceHandler) BatchSync(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sync.ExecuteBatch(r.Context())
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ManualUpdate handles POST /internal/remittances/{id}/status.
func (h *RemittanceHandler) ManualUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.remittanceID(w, r)
	if !ok {
		return
	}

	var req dto.ManualUpdateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData, err.Error())
		return
	}
	req.RemittanceID = id

	resp, err := h.manualUpdate.Execute(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RemittanceHandler) remittanceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperr.KindInvalidRequestData,
			fmt.Sprintf("invalid remittance id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}

func (h *RemittanceHandler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kindToStatus(kind)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		// Internal details stay out of the response body.
		writeError(w, status, kind, "internal server error")
		return
	}
	writeError(w, status, kind, err.Error())
}

func kindToStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidRequestData,
		apperr.KindMissingRequiredField,
		apperr.KindPayoutMethodNotSupported,
		apperr.KindWebhookProcessingFailure:
		return http.StatusBadRequest
	case apperr.KindUnauthorizedAccess:
		return http.StatusUnauthorized
	case apperr.KindRemittanceNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateRequest,
		apperr.KindConcurrentModification:
		return http.StatusConflict
	case apperr.KindPaymentForbidden,
		apperr.KindUpdateForbidden,
		apperr.KindCancellationForbidden:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB max
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("request body is empty")
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, kind apperr.Kind, msg string) {
	writeJSON(w, statusCode, errorResponse{Error: msg, Kind: string(kind)})
}
