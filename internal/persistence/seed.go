package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/task-team-service/internal/auth"
	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/repository"
)

// DemoAccount is a login created by the seeder.
type DemoAccount struct {
	Email    string
	Password string
	FullName string
	Role     domain.UserRole
}

// DemoAccounts lists the accounts created when demo seeding is enabled.
var DemoAccounts = []DemoAccount{
	{Email: "admin@demo.com", Password: "Admin123", FullName: "Admin User", Role: domain.RoleAdmin},
	{Email: "manager@demo.com", Password: "Manager123", FullName: "Manager User", Role: domain.RoleManager},
	{Email: "employee@demo.com", Password: "Employee123", FullName: "Employee User", Role: domain.RoleEmployee},
}

// Seeder creates the fixed roles and, optionally, demo accounts. It is idempotent.
type Seeder struct {
	uows       repository.UnitOfWorkFactory
	bcryptCost int
	demoData   bool
	logger     *zap.Logger
}

// NewSeeder constructs a seeder.
func NewSeeder(uows repository.UnitOfWorkFactory, bcryptCost int, demoData bool, logger *zap.Logger) *Seeder {
	return &Seeder{uows: uows, bcryptCost: bcryptCost, demoData: demoData, logger: logger}
}

// Seed runs inside one transaction; any failure rolls everything back.
func (s *Seeder) Seed(ctx context.Context) (err error) {
	uow := s.uows.New()
	if err := uow.BeginTransaction(ctx); err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := uow.RollbackTransaction(ctx); rbErr != nil {
				s.logger.Error("seed rollback failed", zap.Error(rbErr))
			}
		}
	}()

	roleIDs := make(map[domain.UserRole]uuid.UUID, 3)
	for _, role := range domain.AllRoles() {
		existing, err := uow.Roles().GetByName(ctx, string(role))
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
		if existing != nil {
			roleIDs[role] = existing.ID
			continue
		}
		created := &domain.Role{ID: uuid.New(), Name: string(role)}
		uow.Roles().Add(created)
		roleIDs[role] = created.ID
		s.logger.Info("seeding role", zap.String("role", created.Name))
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	if s.demoData {
		for _, account := range DemoAccounts {
			if err := s.seedAccount(ctx, uow, account, roleIDs[account.Role]); err != nil {
				return err
			}
		}
		if _, err := uow.SaveChanges(ctx); err != nil {
			return fmt.Errorf("seed demo accounts: %w", err)
		}
	}

	if err := uow.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (s *Seeder) seedAccount(ctx context.Context, uow repository.UnitOfWork, account DemoAccount, roleID uuid.UUID) error {
	existing, err := uow.Users().GetByEmail(ctx, account.Email)
	if err != nil {
		return fmt.Errorf("seed %s: %w", account.Email, err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(account.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash %s: %w", account.Email, err)
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        account.Email,
		PasswordHash: hash,
		FullName:     account.FullName,
		Role:         account.Role,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	uow.Users().Add(user)
	uow.Roles().AssignRole(user.ID, roleID)
	s.logger.Info("seeding demo account", zap.String("email", account.Email))
	return nil
}
