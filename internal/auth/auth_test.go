package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-team-service/internal/domain"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

func newTestTokens() *TokenManager {
	return NewTokenManager("test-secret-0123456789abcdef0123456789", "issuer", "audience", time.Hour)
}

func testUser(role domain.UserRole) *domain.User {
	return &domain.User{ID: uuid.New(), Email: "ann@example.com", FullName: "Ann", Role: role}
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := newTestTokens()
	user := testUser(domain.RoleManager)

	token, expiresAt, err := tm.GenerateToken(user, []string{"Manager"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, domain.RoleManager, claims.Role)
	assert.Equal(t, []string{"Manager"}, claims.Roles)
	assert.Equal(t, "issuer", claims.Issuer)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestParseTokenRejectsWrongAudienceAndIssuer(t *testing.T) {
	user := testUser(domain.RoleAdmin)
	token, _, err := newTestTokens().GenerateToken(user, nil)
	require.NoError(t, err)

	other := NewTokenManager("test-secret-0123456789abcdef0123456789", "issuer", "someone-else", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)

	other = NewTokenManager("test-secret-0123456789abcdef0123456789", "another-issuer", "audience", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpiredAndForeignSignature(t *testing.T) {
	tm := newTestTokens()
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.GenerateToken(testUser(domain.RoleAdmin), nil)
	require.NoError(t, err)

	_, err = newTestTokens().ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	forged := NewTokenManager("another-secret-0123456789abcdef01234567", "issuer", "audience", time.Hour)
	token, _, err = forged.GenerateToken(testUser(domain.RoleAdmin), nil)
	require.NoError(t, err)
	_, err = newTestTokens().ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret1", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "Secret1"))
	assert.Error(t, ComparePassword(hash, "secret1"))
}

func TestPasswordPolicy(t *testing.T) {
	policy := PasswordPolicy{RequiredLength: 6, RequireDigit: true, RequireLowercase: true, RequireUppercase: true}

	assert.Empty(t, policy.Check("Admin123"))
	assert.Equal(t, []string{
		"Passwords must have at least one digit ('0'-'9').",
		"Passwords must have at least one uppercase ('A'-'Z').",
	}, policy.Check("abcdefg"))
	assert.Contains(t, policy.Check("Ab1"), "Passwords must be at least 6 characters.")

	// Length counts characters, not bytes.
	short := PasswordPolicy{RequiredLength: 6}
	assert.Contains(t, short.Check("ééé"), "Passwords must be at least 6 characters.")
	assert.Empty(t, short.Check("éééééé"))

	strict := PasswordPolicy{RequireNonAlphanumeric: true}
	assert.Len(t, strict.Check("abc"), 1)
	assert.Empty(t, strict.Check("ab!c"))
}

func newPolicyApp(tm *TokenManager, policy Policy) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/protected", mw.Handle, RequirePolicy(policy), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(principal.Caller().UserID.String())
	})
	return app
}

func TestRequirePolicy(t *testing.T) {
	tm := newTestTokens()
	app := newPolicyApp(tm, ManagerOrAdmin)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
	}

	for _, role := range []domain.UserRole{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee} {
		token, _, err := tm.GenerateToken(testUser(role), []string{string(role)})
		require.NoError(t, err)
		want := http.StatusOK
		if role == domain.RoleEmployee {
			want = http.StatusForbidden
		}
		cases = append(cases, struct {
			name   string
			header string
			want   int
		}{name: string(role), header: "Bearer " + token, want: want})
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestHasAnyRoleFallsBackToRoleClaim(t *testing.T) {
	p := &Principal{Role: domain.RoleAdmin}
	assert.True(t, AdminOnly.Allows(p))

	p = &Principal{Role: domain.RoleAdmin, Roles: []string{"Employee"}}
	assert.False(t, AdminOnly.Allows(p))
	assert.True(t, EmployeeOrAbove.Allows(p))

	assert.False(t, EmployeeOrAbove.Allows(nil))
}
