package domain

import "github.com/google/uuid"

// Role is a stored role definition referenced by role assignments.
type Role struct {
	ID   uuid.UUID
	Name string
}

// UserRoleAssignment records that a user holds a role.
type UserRoleAssignment struct {
	UserID uuid.UUID
	RoleID uuid.UUID
}

// Caller identifies the authenticated user on whose behalf a handler runs.
type Caller struct {
	UserID uuid.UUID
	Role   UserRole
}

// IsEmployee reports whether the caller holds the Employee tier.
func (c Caller) IsEmployee() bool {
	return c.Role == RoleEmployee
}
