package user

// Role classifies what a user may do across the platform.
type Role string

const (
	// RoleAdmin has unrestricted access.
	RoleAdmin Role = "admin"
	// RoleModerator has unrestricted read access and content moderation.
	RoleModerator Role = "moderator"
	// RolePJUser is project staff: access is scoped to novels whose roster
	// lists them.
	RolePJUser Role = "pj_user"
	// RoleReader is a regular account.
	RoleReader Role = "reader"
)

var validRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleModerator: true,
	RolePJUser:    true,
	RoleReader:    true,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsStaff reports whether the role bypasses all content gating.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleModerator
}

// ParseRole converts a raw string to a Role, defaulting to reader. Absent or
// malformed roles degrade to the least privileged account rather than
// failing.
func ParseRole(s string) Role {
	role := Role(s)
	if role.IsValid() {
		return role
	}
	return RoleReader
}
