package tokenauth

// DevBypassClaims describes the synthetic caller bound when the middleware runs in dev mode.
// A nil field is absent; an empty string is kept as given.
type DevBypassClaims struct {
	UserID *string
	Name   *string
	Email  *string
	Roles  []string
}

// ToCallerClaims converts the dev bypass configuration into caller claims.
// Absent fields take the same placeholders an issued token would carry.
func (d DevBypassClaims) ToCallerClaims() CallerClaims {
	claims := &Claims{
		UserID: valueOr(d.UserID, NoUserID),
		Name:   valueOr(d.Name, NoUsername),
		Email:  valueOr(d.Email, NoEmail),
		Roles:  append([]string(nil), d.Roles...),
	}
	return CallerClaims{
		Claims:    claims,
		DevBypass: true,
	}
}

// DefaultDevBypassClaims returns a least-privileged caller suitable for local development.
func DefaultDevBypassClaims() DevBypassClaims {
	return DevBypassClaims{
		UserID: String("dev-bypass"),
		Name:   String("dev"),
		Roles:  []string{RoleUser.String()},
	}
}
