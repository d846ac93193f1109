// Package server wires the public API and admin surfaces onto one router.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luisscruza/variantbox/internal/admin"
	"github.com/luisscruza/variantbox/internal/catalog"
	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/common/metrics"
	"github.com/luisscruza/variantbox/internal/notify"
)

// Deps carries everything the router mounts.
type Deps struct {
	Catalog      *catalog.Adapter
	Products     *catalog.Store
	Notify       *notify.Service
	Tokens       *notify.TokenIssuer
	AdminHandler *admin.Handler
	Logger       logger.Logger
}

// New builds the chi router.
func New(deps Deps) *chi.Mux {
	api := &apiHandler{
		catalog: deps.Catalog,
		notify:  deps.Notify,
		tokens:  deps.Tokens,
		logger:  deps.Logger.WithFields(map[string]interface{}{"component": "server"}),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(durationMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/notify-token", api.issueToken)
		r.Post("/notify-requests", api.submitNotifyRequest)
		r.Get("/products/{productID}/boxes", api.renderBoxes)
	})

	if deps.AdminHandler != nil {
		r.Mount("/admin/notify-requests", deps.AdminHandler.Routes())
	}

	return r
}

// durationMiddleware records per-route request durations.
func durationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
