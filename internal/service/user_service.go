package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/auth"
	"github.com/spec-kit/task-team-service/internal/config"
	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/repository"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

// UserService administers accounts and their role assignments.
type UserService struct {
	uows        repository.UnitOfWorkFactory
	policy      auth.PasswordPolicy
	uniqueEmail bool
	bcryptCost  int
	now         Clock
}

// UserDependencies encapsulates the collaborators of the user service.
type UserDependencies struct {
	UnitOfWorks repository.UnitOfWorkFactory
	Identity    config.IdentityConfig
	BcryptCost  int
	Clock       Clock
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	now := deps.Clock
	if now == nil {
		now = systemClock
	}
	return &UserService{
		uows: deps.UnitOfWorks,
		policy: auth.PasswordPolicy{
			RequiredLength:         deps.Identity.RequiredLength,
			RequireDigit:           deps.Identity.RequireDigit,
			RequireLowercase:       deps.Identity.RequireLowercase,
			RequireUppercase:       deps.Identity.RequireUppercase,
			RequireNonAlphanumeric: deps.Identity.RequireNonAlphanumeric,
		},
		uniqueEmail: deps.Identity.RequireUniqueEmail,
		bcryptCost:  deps.BcryptCost,
		now:         now,
	}
}

// Create stores the account with its role on the user row and as one role assignment.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	uow := s.uows.New()
	if err := s.ensureEmailFree(ctx, uow, in.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if problems := s.policy.Check(in.Password); len(problems) > 0 {
		return nil, apperrors.NewFailure("Failed to create user: " + strings.Join(problems, ", "))
	}
	role, err := uow.Roles().GetByName(ctx, string(in.Role))
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("role %s is not seeded", in.Role)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		CreatedAt:    s.now(),
	}
	uow.Users().Add(user)
	uow.Roles().AssignRole(user.ID, role.ID)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Update rewrites the profile. When the new role is not among the current
// assignments, all assignments are replaced by that role.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	uow := s.uows.New()
	user, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgUserNotFound)
	}
	if err := s.ensureEmailFree(ctx, uow, in.Email, id); err != nil {
		return nil, err
	}

	current, err := uow.Roles().RolesForUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !containsRole(current, in.Role) {
		role, err := uow.Roles().GetByName(ctx, string(in.Role))
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("role %s is not seeded", in.Role)
		}
		uow.Roles().ClearUserRoles(id)
		uow.Roles().AssignRole(id, role.ID)
	}

	now := s.now()
	user.FullName = in.FullName
	user.Email = in.Email
	user.Role = in.Role
	user.UpdatedAt = &now
	uow.Users().Update(user)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user who neither created nor is assigned any task.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uows.New()
	user, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		return failIfNotFound(err, MsgUserNotFound)
	}
	busy, err := uow.Tasks().ExistsForUser(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return apperrors.NewFailure(MsgUserHasTasks)
	}
	uow.Users().Remove(user)
	_, err = uow.SaveChanges(ctx)
	return err
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.uows.New().Users().GetByID(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgUserNotFound)
	}
	return user, nil
}

// List returns every user ordered by full name.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.uows.New().Users().ListOrderedByName(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ensureEmailFree fails when email belongs to a user other than self.
func (s *UserService) ensureEmailFree(ctx context.Context, uow repository.UnitOfWork, email string, self uuid.UUID) error {
	if !s.uniqueEmail {
		return nil
	}
	existing, err := uow.Users().GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperrors.NewFailure(MsgEmailExists)
	}
	return nil
}

func containsRole(names []string, role domain.UserRole) bool {
	for _, name := range names {
		if name == string(role) {
			return true
		}
	}
	return false
}
