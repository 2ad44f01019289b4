package model

// Role determines which actions a session may perform.
type Role string

// Roles.
const (
	RoleCashier Role = "cashier"
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
)

// Roles lists every role.
var Roles = []Role{RoleCashier, RoleAdmin, RoleCreator}

// ParseRole converts a raw value into a Role. Unknown values fail.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCashier, RoleAdmin, RoleCreator:
		return Role(s), true
	default:
		return "", false
	}
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleCashier:
		return "Кассир"
	case RoleAdmin:
		return "Администратор"
	case RoleCreator:
		return "Создатель"
	default:
		return string(r)
	}
}

// CanIntake reports whether the role may register new items.
func (r Role) CanIntake() bool {
	switch r {
	case RoleAdmin, RoleCreator:
		return true
	case RoleCashier:
		return false
	default:
		return false
	}
}

// CanPickup reports whether the role may hand items out.
func (r Role) CanPickup() bool {
	switch r {
	case RoleCashier, RoleAdmin, RoleCreator:
		return true
	default:
		return false
	}
}
