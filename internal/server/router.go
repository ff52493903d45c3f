package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sumtutor/internal/calculator"
	"sumtutor/internal/handlers"
	"sumtutor/internal/observability"
)

// NewRouter assembles the middleware chain and mounts the tutor API.
func NewRouter(svc *calculator.Service) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, svc)

	return r
}
