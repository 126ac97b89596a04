package middleware

import (
	"encoding/json"
	"net/http"
)

// Chain applies middleware in order (first to last).
//
// Example:
//
//	handler := Chain(mux,
//	    RequestLogging,   // Executes first
//	    Session(auth),    // Executes second
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
