package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole enumerates authorization tiers.
type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleManager  UserRole = "Manager"
	RoleEmployee UserRole = "Employee"
)

var roleNames = []string{string(RoleAdmin), string(RoleManager), string(RoleEmployee)}

// AllRoles lists the fixed roles in seeding order.
func AllRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleManager, RoleEmployee}
}

// ParseUserRole accepts a role name (any case) or its ordinal 1..3.
func ParseUserRole(raw string) (UserRole, bool) {
	value, ok := parseEnum(raw, roleNames)
	return UserRole(value), ok
}

// Valid reports whether r is one of the fixed roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	*r = UserRole(unmarshalEnum(data, roleNames))
	return nil
}

// User is an account able to log in and own or receive tasks.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
