package authorization

import "strings"

type UserRole string

const (
	RoleMentee UserRole = "mentee"
	RoleCoach  UserRole = "coach"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsCoach() bool {
	return r == RoleCoach
}

func (r UserRole) IsValid() bool {
	return r == RoleMentee || r == RoleCoach || r == RoleAdmin
}

// ParseUserRole falls back to mentee for unknown values.
func ParseUserRole(s string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if role.IsValid() {
		return role
	}
	return RoleMentee
}
