package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"NexStock/pkg/kit"
)

type HTTPDeps struct {
	Log       *zap.Logger
	Namespace string
	Registry  *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// Auth is mounted at /api/auth when set.
	Auth http.Handler
	// Guard wraps the routes that write the dataset.
	Guard func(http.Handler) http.Handler
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	if deps.Auth != nil {
		r.Mount("/api/auth", deps.Auth)
	}
	r.Mount("/api/c", s.Routes(deps.Guard))

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry, deps.Namespace)
	r.Use(metrics.Middleware(kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	h := promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	if deps.MetricsToken == "" {
		r.Handle("/metrics", h)
		return
	}
	r.With(kit.MetricsAuth(deps.MetricsToken)).Handle("/metrics", h)
}
