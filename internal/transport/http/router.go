package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quoteflow/internal/platform/device"
	"quoteflow/internal/platform/health"
	"quoteflow/internal/registration/handler"
	"quoteflow/pkg/platform/middleware/auth"
	devicemw "quoteflow/pkg/platform/middleware/device"
	"quoteflow/pkg/platform/middleware/metadata"
	request "quoteflow/pkg/platform/middleware/request"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 64 << 10
)

// Deps groups everything the router mounts.
type Deps struct {
	Registration *handler.Handler
	Health       *health.Handler
	Tokens       auth.SessionTokenValidator
	Metadata     *metadata.Middleware
	Gatherer     prometheus.Gatherer
	Metrics      *request.Metrics
	Logger       *slog.Logger
}

// NewRouter wires the public and session-scoped endpoints with middleware.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	meta := deps.Metadata
	if meta == nil {
		meta = metadata.NewMiddleware(nil)
	}

	r.Use(request.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(meta.Handler)
	r.Use(devicemw.Device(&devicemw.Config{DescribeFn: device.Describe}))
	r.Use(request.Logger(deps.Logger))
	r.Use(request.LatencyMiddleware(deps.Metrics, routePattern))
	r.Use(request.Timeout(requestTimeout))

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(request.BodyLimit(maxBodyBytes))

		deps.Registration.RegisterPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(deps.Tokens, deps.Logger))
			deps.Registration.Register(r)
		})
	})

	return r
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
