package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/carhive/interaction-service/internal/config"
	"github.com/carhive/interaction-service/internal/transport/http/handlers"
	appmw "github.com/carhive/interaction-service/internal/transport/http/middleware"
)

func New(
	h *handlers.EventsHandler,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	r.Use(appmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events", h.Create)
		r.Get("/events", h.List)
	})

	return r
}
