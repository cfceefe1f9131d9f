package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evidence-tracker/internal/config"
	"evidence-tracker/internal/handler"
	"evidence-tracker/internal/middleware"
	"evidence-tracker/internal/model"
	"evidence-tracker/internal/websocket"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Evidence *handler.EvidenceHandler
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	h Handlers,
	hub *websocket.Hub,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)
	metricsMiddleware := middleware.NewMetricsMiddleware(registry)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(metricsMiddleware.Handler)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWS(hub, w, r)
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)

			auth.Group(func(admin chi.Router) {
				admin.Use(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin))
				admin.Get("/users", h.User.List)
				admin.Get("/users/pending", h.User.ListPending)
				admin.Put("/users/{user_id}/approve", h.User.Approve)
				admin.Delete("/users/{user_id}", h.User.Delete)
			})
		})

		api.Route("/evidence", func(ev chi.Router) {
			ev.Use(authMiddleware.RequireAuth)
			ev.Get("/", h.Evidence.List)
			ev.Post("/", h.Evidence.Submit)
			ev.Get("/{evidence_id}", h.Evidence.Get)
			ev.With(authMiddleware.RequireRoles(model.RoleSupervisor, model.RoleAdmin)).
				Put("/{evidence_id}/status", h.Evidence.UpdateStatus)
		})
	})

	return r
}
