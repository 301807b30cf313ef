package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniCart/internal/auth"
	"MiniCart/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsTokenHash []byte
	CORSOrigins      []string

	// Tokens guards catalog writes. Nil leaves writes open.
	Tokens *auth.TokenMaker
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	kit.Base(r, deps.Log)
	r.Use(kit.CORS(deps.CORSOrigins))
	kit.MountMetrics(r, deps.Registry, deps.Service, deps.MetricsTokenHash)

	var admin func(http.Handler) http.Handler
	if deps.Tokens != nil {
		admin = auth.RequireRole(deps.Tokens, auth.RoleAdmin)
	}

	r.Mount("/", s.Routes(admin))
	return r
}
