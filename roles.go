package tokenauth

// Role is a recognised privilege level carried in role claims.
type Role string

const (
	RoleGod           Role = "God"
	RoleAdministrator Role = "Administrator"
	RoleService       Role = "Service"
	RoleUser          Role = "User"
)

var privilegedRoles = map[Role]struct{}{
	RoleGod:           {},
	RoleAdministrator: {},
	RoleService:       {},
}

// IsPrivileged reports whether role exactly names one of the privileged roles.
// Unknown role names are not privileged.
func IsPrivileged(role string) bool {
	_, ok := privilegedRoles[Role(role)]
	return ok
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
