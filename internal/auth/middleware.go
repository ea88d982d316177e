package auth

import (
	"log/slog"
	"net/http"
)

// Middleware rejects requests without a valid bearer token and stores the
// token's user id in the request context.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		userID, err := v.Verify(token)
		if err != nil {
			slog.Warn("rejected token", "path", r.URL.Path, "error", err)
			http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
