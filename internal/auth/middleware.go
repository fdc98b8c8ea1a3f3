package auth

import (
	"net/http"
	"strings"

	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// RequireAPI guards an API route with bearer-token authentication. A missing,
// malformed, or expired token yields a 401 envelope.
func (ti *TokenIssuer) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpapi.WriteErrorMessage(w, httpapi.CodeAuthentication, "no token provided")
			return
		}
		claims, err := ti.Verify(token)
		if err != nil {
			httpapi.WriteErrorMessage(w, httpapi.CodeAuthentication, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaimsContext(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
