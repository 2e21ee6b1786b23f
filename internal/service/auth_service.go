package service

import (
	"context"
	"time"

	"github.com/spec-kit/task-team-service/internal/auth"
	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/repository"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService coordinates login.
type AuthService struct {
	uows     repository.UnitOfWorkFactory
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(uows repository.UnitOfWorkFactory, tokens *auth.TokenManager) *AuthService {
	return &AuthService{uows: uows, tokenMgr: tokens}
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail with the same message.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	uow := s.uows.New()
	user, err := uow.Users().GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewFailure(MsgInvalidCredentials)
	}
	if err := auth.ComparePassword(user.PasswordHash, in.Password); err != nil {
		return nil, apperrors.NewFailure(MsgInvalidCredentials)
	}

	roles, err := uow.Roles().RolesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, exp, err := s.tokenMgr.GenerateToken(user, roles)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
