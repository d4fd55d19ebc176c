// Package api exposes the engine over a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tabsplit/tabsplit/internal/auth"
	"github.com/tabsplit/tabsplit/internal/middleware"
	"github.com/tabsplit/tabsplit/internal/service"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	splits *service.SplitService,
	receipts *service.ReceiptService,
	authSvc *service.AuthService,
	jwtManager *auth.JWTManager,
	registry *prometheus.Registry,
) http.Handler {
	h := &Handlers{
		splits:   splits,
		receipts: receipts,
		auth:     authSvc,
	}

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.SetHeader("Content-Type", "application/json"))

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Pure computation, no persistence; a valid token attributes the
		// request to a user but none is required.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(jwtManager))
			r.Post("/splits/compute", h.ComputeSplit)
			r.Post("/reconcile", h.Reconcile)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Post("/splits", h.SaveSplit)
			r.Get("/splits", h.History)
			r.Get("/splits/stats", h.Stats)
			r.Get("/splits/{id}", h.GetSplit)

			r.Post("/receipts", h.ImportReceipt)
			r.Get("/receipts/{id}", h.GetReceipt)
			r.Post("/receipts/{id}/finalize", h.FinalizeReceipt)
			r.Post("/receipts/{id}/accept", h.AcceptReceipt)
			r.Post("/receipts/{id}/correct", h.CorrectReceipt)
			r.Put("/receipts/{id}/items", h.UpdateReceiptItems)
			r.Post("/receipts/{id}/reject", h.RejectReceipt)
		})
	})

	return r
}
