package cart

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniCart/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsTokenHash []byte
	CORSOrigins      []string

	// RateLimit caps requests per client IP per minute. Zero disables it.
	RateLimit int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	kit.Base(r, deps.Log)
	r.Use(kit.CORS(deps.CORSOrigins))
	r.Use(kit.NewRateLimiter(deps.RateLimit, time.Minute, kit.ClientIP).Middleware)
	kit.MountMetrics(r, deps.Registry, deps.Service, deps.MetricsTokenHash)

	r.Mount("/", s.Routes())
	return r
}
