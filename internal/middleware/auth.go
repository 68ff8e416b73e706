package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"portal/internal/auth"
	"portal/internal/httputil"
)

// Authenticate verifies a bearer token when one is presented.
// Valid claims are stored in the request context. A rejected token is
// recorded with httputil.WithAuthError and the request continues, so each
// handler decides whether identity is required and in what order it checks
// its own input.
func Authenticate(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A header without a bearer token counts as no credentials
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("bearer token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				next.ServeHTTP(w, httputil.WithAuthError(r, err))
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
