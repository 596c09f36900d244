package auth

import (
	"net/http"
	"strings"
)

// Middleware resolves the bearer token on each request and injects the user
// ID into the context. In dev mode, requests without a token fall back to
// the demo account so the app is usable without signing up.
func Middleware(service *Service, devMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")

			if token != "" && token != header {
				userID, err := service.Validate(token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
					return
				}
			}

			if devMode {
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), DemoUserID)))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
		})
	}
}
