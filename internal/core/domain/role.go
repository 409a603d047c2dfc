package domain

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleSuperAdmin   Role = "superadmin"
	RoleEventManager Role = "event-manager"
	RoleUser         Role = "user"
)

// Roles lists every known role, most privileged first.
var Roles = []Role{RoleSuperAdmin, RoleEventManager, RoleUser}

// ParseRole converts a raw string into a Role. An empty string is rejected;
// callers that want a default must apply it before parsing.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleEventManager, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Privileged reports whether the role can only be granted by a superadmin.
func (r Role) Privileged() bool {
	switch r {
	case RoleSuperAdmin, RoleEventManager:
		return true
	case RoleUser:
		return false
	default:
		return true
	}
}

// ManagesEvents reports whether the role may create and mutate events.
func (r Role) ManagesEvents() bool {
	switch r {
	case RoleSuperAdmin, RoleEventManager:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
