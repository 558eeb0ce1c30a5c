package auth

import (
	"errors"
	"strings"
)

// Role is the closed set of staff roles. Role strings are normalized exactly
// once, here, when an account is created; everything downstream compares
// canonical values.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleStaff      Role = "staff"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps free-form role input ("Supervisor", "SANITARY-INSPECTOR
// style variants with hyphens, mixed case) onto the closed enumeration.
func ParseRole(s string) (Role, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")

	switch norm {
	case "admin":
		return RoleAdmin, nil
	case "supervisor", "sanitary_inspector":
		return RoleSupervisor, nil
	case "", "staff":
		return RoleStaff, nil
	default:
		return "", ErrUnknownRole
	}
}
