package models

import "strings"

// Role is the access level of an account.
type Role string

// Supported roles.
const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// ParseRole normalises a role name, reporting whether it is known.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return role, true
	default:
		return "", false
	}
}

// CanManageCourses reports whether the role may write the course catalogue.
func (r Role) CanManageCourses() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// User is a registered campus account. Passwords never live on this record.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
