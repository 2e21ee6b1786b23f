package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-team-service/internal/domain"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

// Policy names a set of roles allowed through a route.
type Policy struct {
	Name  string
	Roles []domain.UserRole
}

var (
	AdminOnly       = Policy{Name: "AdminOnly", Roles: []domain.UserRole{domain.RoleAdmin}}
	ManagerOrAdmin  = Policy{Name: "ManagerOrAdmin", Roles: []domain.UserRole{domain.RoleManager, domain.RoleAdmin}}
	EmployeeOrAbove = Policy{Name: "EmployeeOrAbove", Roles: []domain.UserRole{domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin}}
)

// Allows reports whether the principal satisfies the policy.
func (p Policy) Allows(principal *Principal) bool {
	return principal != nil && principal.HasAnyRole(p.Roles...)
}

// RequirePolicy rejects callers outside the policy with 403. It must run after
// AuthMiddleware.Handle.
func RequirePolicy(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !policy.Allows(principal) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
