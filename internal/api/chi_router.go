// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/offspot-metrics/internal/middleware"
)

// NewRouter builds the chi router of the service.
//
// Global middleware order:
//
//	RealIP -> RequestID -> PrometheusMetrics -> Recoverer -> CORS -> RateLimit
//
// Routes under /api/v1 additionally resolve the dashboard session. JSON
// routes are gzip-compressed; the WebSocket route is not.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(h.mw.CORS())
	r.Use(h.mw.RateLimit())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	})

	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.Session(h.sessions, h.sessionUnavailable)))

		r.Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/state", h.State)

			r.Route("/aggregation", func(r chi.Router) {
				r.Put("/kind", h.SetAggregationKind)
				r.Post("/refresh", h.RefreshAggregation)
				r.Put("/value", h.SetAggregationValue)
				r.Post("/next", h.NextAggregationValue)
				r.Post("/previous", h.PreviousAggregationValue)
			})

			r.Put("/page", h.SetCurrentPage)

			r.Route("/kpis", func(r chi.Router) {
				r.Get("/total-usage", h.TotalUsage)
				r.Get("/package-popularity", h.PackagePopularity)
				r.Get("/popular-pages", h.PopularPages)
				r.Get("/shared-files", h.SharedFiles)
				r.Get("/uptime", h.Uptime)
				r.Get("/{kpiId}/values", h.KpiValues)
			})

			r.Get("/colors", h.Colors)
			r.Get("/labels/date", h.DateLabel)
		})
	})

	return r
}
