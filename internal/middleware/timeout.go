package middleware

import (
	"net/http"
	"time"
)

const TimeoutMessage = "Request timed out. Please check your network and try again."

// Timeout answers 503 with TimeoutMessage when a handler runs longer than d.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	body := `{"error":"` + TimeoutMessage + `"}`
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, body)
	}
}
