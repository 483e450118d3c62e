package daemon

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authMiddleware requires "Authorization: Bearer <token>" on every route
// except /healthz. The HTML listing page also accepts ?token= since a browser
// navigation cannot set headers. An empty token disables the check.
func authMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok && r.Method == http.MethodGet && r.URL.Path == "/summaries" {
			given = r.URL.Query().Get("token")
		}
		if given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
