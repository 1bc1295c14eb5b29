package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merkato/fincore/internal/adapter/http/handler"
	"github.com/merkato/fincore/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CapitalHandler *handler.CapitalHandler
	RevenueHandler *handler.RevenueHandler
	HealthHandler  *handler.HealthHandler
	Logging        *middleware.LoggingMiddleware
	Metrics        *middleware.MetricsMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Capital ledger
		r.Route("/capital", func(r chi.Router) {
			r.Get("/balance", cfg.CapitalHandler.Balance)
			r.Route("/entries", func(r chi.Router) {
				r.Post("/", cfg.CapitalHandler.Create)
				r.Get("/", cfg.CapitalHandler.List)
				r.Get("/{id}", cfg.CapitalHandler.Get)
				r.Delete("/{id}", cfg.CapitalHandler.Delete)
			})
		})

		// Revenue ledger
		r.Route("/revenue", func(r chi.Router) {
			r.Post("/receipts", cfg.RevenueHandler.RecordReceipt)
			r.Post("/refunds", cfg.RevenueHandler.RecordRefund)
			r.Post("/withdrawals", cfg.RevenueHandler.RecordWithdrawal)
			r.Post("/reinvestments", cfg.RevenueHandler.RecordReinvestment)
			r.Get("/withdrawable", cfg.RevenueHandler.WithdrawableBalance)
			r.Route("/summaries", func(r chi.Router) {
				r.Get("/{period}", cfg.RevenueHandler.GetSummary)
				r.Post("/{period}/recompute", cfg.RevenueHandler.RecomputeSummary)
			})
		})
	})

	return r
}
