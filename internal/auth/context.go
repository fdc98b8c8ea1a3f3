package auth

import "context"

type ctxKey string

const claimsContextKey ctxKey = "naruto.auth.claims"

func withClaimsContext(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}

// ClaimsFromContext returns the authenticated player claims, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	v := ctx.Value(claimsContextKey)
	c, ok := v.(Claims)
	return c, ok
}

// PlayerIDFromContext returns the authenticated player id, or "".
func PlayerIDFromContext(ctx context.Context) string {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	return c.PlayerID
}
