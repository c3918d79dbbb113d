package library

// Role is a user's permission tier. The set is closed: anything outside
// these constants is rejected at parse time instead of falling through
// menu dispatch at runtime.
type Role string

const (
	RoleUser   Role = "user"
	RoleStaff  Role = "verwaltung"
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
)

// ParseRole maps a stored or typed-in role tag to a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(normalize(s)) {
	case RoleUser:
		return RoleUser, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleAuthor:
		return RoleAuthor, true
	}
	return "", false
}

// AssignableRoles are the roles the change-role and add-user menus may
// set. Author accounts are only reconstructed from storage.
var AssignableRoles = []Role{RoleUser, RoleAdmin, RoleStaff}

// Assignable reports whether the role may be handed out via the menus.
func (r Role) Assignable() bool {
	for _, a := range AssignableRoles {
		if r == a {
			return true
		}
	}
	return false
}

// CanManageMedia reports whether the role may add and delete catalog items.
func (r Role) CanManageMedia() bool { return r == RoleAdmin || r == RoleStaff }

// CanManageUsers reports whether the role may add and delete users.
func (r Role) CanManageUsers() bool { return r == RoleAdmin || r == RoleStaff }

// CanChangeRoles reports whether the role may reassign other users' roles.
func (r Role) CanChangeRoles() bool { return r == RoleAdmin }

// CanForceReturn reports whether the role may revoke another user's
// borrowed item.
func (r Role) CanForceReturn() bool { return r == RoleAdmin || r == RoleStaff }
