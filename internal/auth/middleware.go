package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as described by its token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   domain.UserRole
	Roles  []string
}

// Caller returns the identity handed to service methods.
func (p *Principal) Caller() domain.Caller {
	return domain.Caller{UserID: p.UserID, Role: p.Role}
}

// HasAnyRole reports whether the principal holds one of roles. The roles claim
// is authoritative; the single Role claim is used when it is absent.
func (p *Principal) HasAnyRole(roles ...domain.UserRole) bool {
	held := p.Roles
	if len(held) == 0 && p.Role != "" {
		held = []string{string(p.Role)}
	}
	for _, h := range held {
		for _, want := range roles {
			if h == string(want) {
				return true
			}
		}
	}
	return false
}

// AuthMiddleware validates bearer tokens and stores the principal on the request.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return apperrors.NewUnauthorized("invalid token subject")
	}

	c.Locals(principalKey, &Principal{
		UserID: userID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
		Roles:  claims.Roles,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
