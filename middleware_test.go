package tokenauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callerEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "no caller", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id":    caller.Claims.UserID,
			"dev_bypass": caller.DevBypass,
		})
	})
}

func serve(handler http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_BindsClaims(t *testing.T) {
	a := newTestAuthority(t, JWXCodec{})
	handler := a.Middleware(MiddlewareOptions{})(callerEcho(t))

	rec := serve(handler, issueHeader(t, a, &UserProfile{ID: String("u-42")}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-42", body["user_id"])
	assert.Equal(t, false, body["dev_bypass"])
}

func TestMiddleware_Rejects(t *testing.T) {
	a := newTestAuthority(t, JWXCodec{})
	other, err := New("another-secret-another-secret-another", 60)
	require.NoError(t, err)
	handler := a.Middleware(MiddlewareOptions{})(callerEcho(t))

	tests := []struct {
		name   string
		header string
		code   ErrorCode
	}{
		{name: "missing header", header: "", code: ErrCodeMalformedHeader},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", code: ErrCodeMalformedHeader},
		{name: "garbage token", header: "Bearer garbage", code: ErrCodeMalformed},
		{name: "foreign signature", header: issueHeader(t, other, nil), code: ErrCodeInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(handler, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error)
		})
	}
}

func TestMiddleware_DevBypass(t *testing.T) {
	a := newTestAuthority(t, JWXCodec{})
	dev := DefaultDevBypassClaims()
	handler := a.Middleware(MiddlewareOptions{DevBypass: &dev})(callerEcho(t))

	rec := serve(handler, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dev-bypass", body["user_id"])
	assert.Equal(t, true, body["dev_bypass"])
}

func TestRequireLeastPrivileged(t *testing.T) {
	a := newTestAuthority(t, JWXCodec{})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	leastOnly := a.Middleware(MiddlewareOptions{})(RequireLeastPrivileged()(ok))
	privilegedOnly := a.Middleware(MiddlewareOptions{})(RequirePrivileged()(ok))

	user := issueHeader(t, a, &UserProfile{Roles: []string{"User"}})
	admin := issueHeader(t, a, &UserProfile{Roles: []string{"Administrator"}})

	assert.Equal(t, http.StatusNoContent, serve(leastOnly, user).Code)
	assert.Equal(t, http.StatusForbidden, serve(leastOnly, admin).Code)
	assert.Equal(t, http.StatusForbidden, serve(privilegedOnly, user).Code)
	assert.Equal(t, http.StatusNoContent, serve(privilegedOnly, admin).Code)

	// Without Middleware in front there is no caller to check.
	assert.Equal(t, http.StatusUnauthorized, serve(RequireLeastPrivileged()(ok), user).Code)
}

func TestDevBypassClaims_Placeholders(t *testing.T) {
	caller := DevBypassClaims{}.ToCallerClaims()

	assert.True(t, caller.DevBypass)
	assert.Equal(t, NoUserID, caller.Claims.UserID)
	assert.Equal(t, NoEmail, caller.Claims.Email)
	assert.True(t, caller.Claims.LeastPrivileged())
}

func TestDevBypassClaims_EmptyValuesKept(t *testing.T) {
	caller := DevBypassClaims{
		UserID: String("dev-1"),
		Name:   String(""),
		Email:  String(""),
	}.ToCallerClaims()

	assert.Equal(t, "dev-1", caller.Claims.UserID)
	assert.Empty(t, caller.Claims.Name)
	assert.Empty(t, caller.Claims.Email)

	caller = DevBypassClaims{UserID: String("dev-1")}.ToCallerClaims()
	assert.Equal(t, NoUsername, caller.Claims.Name)
	assert.Equal(t, NoEmail, caller.Claims.Email)
}
