package middleware

import (
	"fmt"
	"net/http"

	"product-catalog/internal/apierr"
	"product-catalog/internal/http/response"
)

// Recover turns a panic into an internal failure written by the normalizer.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				response.Error(w, r, apierr.Internal(fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
