package tokenauth

import "context"

type callerClaimsKey struct{}

// CallerClaims is what the middleware stores for the authenticated caller.
type CallerClaims struct {
	Claims    *Claims
	DevBypass bool
}

// BindCallerClaims stores caller claims inside the context for downstream handlers.
func BindCallerClaims(ctx context.Context, claims CallerClaims) context.Context {
	return context.WithValue(ctx, callerClaimsKey{}, claims)
}

// CallerClaimsFromContext retrieves caller claims previously stored in the context.
func CallerClaimsFromContext(ctx context.Context) (CallerClaims, bool) {
	if ctx == nil {
		return CallerClaims{}, false
	}
	claims, ok := ctx.Value(callerClaimsKey{}).(CallerClaims)
	if !ok || claims.Claims == nil {
		return CallerClaims{}, false
	}
	return claims, true
}

// UserIDFromContext returns the subject id of the bound caller.
func UserIDFromContext(ctx context.Context) (string, bool) {
	caller, ok := CallerClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return caller.Claims.UserID, true
}
