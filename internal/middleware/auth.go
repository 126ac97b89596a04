package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/dailybible/internal/ctxkeys"
)

// SessionVerifier turns a bearer token into a session.
type SessionVerifier interface {
	VerifySession(token string) (*ctxkeys.Session, error)
}

// Session reads "Authorization: Bearer <jwt>" and adds the session to the context
// when the token is valid. Requests without a valid token continue anonymously.
func Session(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			session, err := verifier.VerifySession(token)
			if err != nil {
				slog.Debug("ignoring invalid session", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithSession(r.Context(), session)))
		})
	}
}

// RequireSession rejects requests without a session. Guests pass.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.SessionFrom(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "sign in or continue as a guest")
			return
		}
		next(w, r)
	}
}

// RequireAccount rejects requests without a signed-in, non-guest session.
func RequireAccount(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := ctxkeys.SessionFrom(r.Context())
		if session == nil {
			writeError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if session.IsGuest() {
			writeError(w, http.StatusForbidden, "not available for guest accounts")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
