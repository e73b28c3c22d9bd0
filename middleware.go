package tokenauth

import (
	"encoding/json"
	"net/http"
)

// MiddlewareOptions tunes Authority.Middleware.
type MiddlewareOptions struct {
	// DevBypass, when set, binds these claims to every request without looking
	// at the Authorization header. Local development only.
	DevBypass *DevBypassClaims
}

// Middleware validates the Authorization header of each request and binds the
// caller claims to the request context. Requests without a valid bearer token
// are answered with 401 and the error code.
func (a *Authority) Middleware(opts MiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.DevBypass != nil {
				ctx := BindCallerClaims(r.Context(), opts.DevBypass.ToCallerClaims())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := a.Validate(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, CodeOf(err))
				return
			}
			ctx := BindCallerClaims(r.Context(), CallerClaims{Claims: claims})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLeastPrivileged admits only callers holding no privileged role.
// Must be used after Middleware.
func RequireLeastPrivileged() func(http.Handler) http.Handler {
	return requireCaller(func(c *Claims) bool { return c.LeastPrivileged() })
}

// RequirePrivileged admits only callers holding at least one privileged role.
// Must be used after Middleware.
func RequirePrivileged() func(http.Handler) http.Handler {
	return requireCaller(func(c *Claims) bool { return !c.LeastPrivileged() })
}

func requireCaller(allow func(*Claims) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrCodeMalformedHeader)
				return
			}
			if !allow(caller.Claims) {
				writeError(w, http.StatusForbidden, ErrCodeForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorBody struct {
	Error   ErrorCode `json:"error"`
	Message string    `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code ErrorCode) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: code, Message: errorMessages[code]})
}
