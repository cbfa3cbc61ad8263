package device

import (
	"net/http"

	"quoteflow/pkg/requestcontext"
)

// Config holds configuration for the Device middleware.
type Config struct {
	// DescribeFn turns a User-Agent into a short label ("Chrome on Android").
	DescribeFn func(userAgent string) string
}

// Device stores a device summary in the request context.
// Register after the metadata middleware, which extracts the User-Agent.
func Device(cfg *Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cfg != nil && cfg.DescribeFn != nil {
				if ua := requestcontext.UserAgent(ctx); ua != "" {
					ctx = requestcontext.WithDeviceSummary(ctx, cfg.DescribeFn(ua))
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
