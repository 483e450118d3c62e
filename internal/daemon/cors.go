package daemon

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// corsMiddleware lets scripts on the configured page origins call the bridge.
// Preflight requests are answered here and never reach authMiddleware.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		return next
	}
	return cors.New(cors.Options{
		AllowedOrigins:      slices.Clone(origins),
		AllowedMethods:      []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:      []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:      []string{"X-Request-ID"},
		MaxAge:              600,
		AllowPrivateNetwork: true,
	}).Handler(next)
}
