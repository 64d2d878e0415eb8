package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tekhekspert/lead-capture/internal/infra/http/handlers"
	"github.com/tekhekspert/lead-capture/internal/infra/http/middleware"
)

type routerDeps struct {
	CORSOrigins []string
	TrustProxy  bool
	Leads       *handlers.LeadHandler
	Phone       *handlers.PhoneHandler
	Health      *handlers.HealthHandler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Slow notifier calls are bounded by the submit timeout; this only
		// protects against clients that never finish sending.
		r.Use(chimw.Timeout(30 * time.Second))

		r.Post("/leads", d.Leads.CaptureLead)
		r.Post("/phone/format", d.Phone.Format)
		r.Get("/sources", d.Phone.Sources)
	})

	return r
}
