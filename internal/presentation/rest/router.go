package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the HTTP routing table. The metrics handler is the
// Prometheus scrape endpoint and may be nil when metrics are disabled.
func NewRouter(h *RemittanceHandler, health *HealthHandler, metrics http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Merchant-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler())
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/quotes", h.Quote)

		api.Route("/remittances", func(rm chi.Router) {
			rm.Post("/", h.CreateRemittance)
			rm.Get("/", h.ListRemittances)

			rm.Route("/{id}", func(one chi.Router) {
				one.Get("/", h.GetRemittance)
				one.Patch("/", h.UpdateRemittance)
				one.Post("/pay", h.PayRemittance)
				one.Post("/cancel", h.CancelRemittance)
			})
		})
	})

	// Connector callbacks are unauthenticated at the routing layer;
	// payload verification happens in the webhook translators.
	r.Post("/webhooks/{connector}", h.Webhook)

	// Operator endpoints, expected to sit behind network-level access
	// control rather than merchant auth.
	r.Route("/internal", func(in chi.Router) {
		in.Post("/sync", h.BatchSync)
		in.Post("/remittances/{id}/sync", h.SyncRemittance)
		in.Post("/remittances/{id}/status", h.ManualUpdate)
	})

	return r
}
