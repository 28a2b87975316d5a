package middleware

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// Throttle returns middleware that rejects requests over the given rate with
// 429. The limiter is global, not per client; it protects the payment
// provider from a burst of checkout attempts, not against abuse by one
// caller.
func Throttle(r rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(r, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprint(w, `{"message":"too many requests, slow down"}`)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
