package middleware

import (
	"log"
	"net/http"

	"github.com/lexwatch/lexwatch/internal/api"
)

// Recover converts a handler panic into a 500 JSON error response. It sits
// outside SentryMiddleware, which captures the panic and re-raises it.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				api.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
