package tokenauth

import (
	"math"
	"strconv"
	"time"
)

// Claim name identities written to and read from tokens.
const (
	ClaimRole           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	ClaimName           = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	ClaimNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	ClaimGivenName      = "given_name"
	ClaimNameID         = "nameid"
	ClaimFamilyName     = "family_name"
	ClaimEmail          = "email"
	ClaimNotBefore      = "nbf"
	ClaimExpiry         = "exp"
)

// inboundClaimTypes maps short wire names to the identities exposed after decoding.
var inboundClaimTypes = map[string]string{
	ClaimNameID: ClaimNameIdentifier,
	"role":      ClaimRole,
}

// Claim is a single named token attribute.
type Claim struct {
	Name  string
	Value string
}

// ClaimSet is an ordered sequence of claims. Names may repeat (one role claim per role).
type ClaimSet []Claim

// Values returns every value recorded under name, in order.
func (s ClaimSet) Values(name string) []string {
	var out []string
	for _, c := range s {
		if c.Name == name {
			out = append(out, c.Value)
		}
	}
	return out
}

// First returns the first value recorded under name.
func (s ClaimSet) First(name string) (string, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Claims represents a validated claim set in normalized form.
type Claims struct {
	UserID     string
	Name       string
	GivenName  string
	FamilyName string
	Email      string
	Roles      []string
	NotBefore  time.Time
	ExpiresAt  time.Time

	Raw ClaimSet
}

// LeastPrivileged reports whether none of the role claims is privileged.
// A claim set without roles is least-privileged.
func (c *Claims) LeastPrivileged() bool {
	for _, role := range c.Roles {
		if IsPrivileged(role) {
			return false
		}
	}
	return true
}

// HasRole reports whether role appears among the role claims.
func (c *Claims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// claimsFromSet normalizes a decoded claim set. A missing subject id leaves
// UserID empty; callers that need it check Raw.
func claimsFromSet(set ClaimSet) *Claims {
	claims := &Claims{
		Roles: set.Values(ClaimRole),
		Raw:   append(ClaimSet(nil), set...),
	}
	claims.UserID, _ = set.First(ClaimNameIdentifier)
	claims.Name, _ = set.First(ClaimName)
	claims.GivenName, _ = set.First(ClaimGivenName)
	claims.FamilyName, _ = set.First(ClaimFamilyName)
	claims.Email, _ = set.First(ClaimEmail)
	claims.NotBefore = epochClaim(set, ClaimNotBefore)
	claims.ExpiresAt = epochClaim(set, ClaimExpiry)
	return claims
}

func epochClaim(set ClaimSet, name string) time.Time {
	v, ok := set.First(name)
	if !ok {
		return time.Time{}
	}
	// Numeric dates may carry a fractional part; whole seconds are kept.
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(int64(math.Floor(secs)), 0).UTC()
}
