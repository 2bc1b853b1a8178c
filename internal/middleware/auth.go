package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"docsite/internal/auth"
	"docsite/internal/httputil"
)

// Protected reports whether a request must carry a bearer credential.
type Protected func(r *http.Request) bool

// APIRoutes protects the JSON and streaming endpoints and the create and
// delete form submissions. HTML reading pages stay public.
func APIRoutes(r *http.Request) bool {
	path := r.URL.Path
	switch {
	case path == "/generate-docs", path == "/docs-chat":
		return true
	case strings.HasPrefix(path, "/api/"):
		return true
	case path == "/create" && r.Method == http.MethodPost:
		return true
	case strings.HasPrefix(path, "/library/") && r.Method == http.MethodPost:
		return true
	}
	return false
}

// Auth rejects protected requests whose Authorization header does not
// verify. A nil verifier disables the check. CORS pre-flight requests are
// never checked.
func Auth(verifier auth.Verifier, protected Protected, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || !protected(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("bearer token rejected", "path", r.URL.Path)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, httputil.WithSubject(r, subject))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
