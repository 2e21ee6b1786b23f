package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

var (
	// ErrNotFound is returned by GetByID when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint is returned when a mutation would break referential or uniqueness rules.
	ErrConstraint = errors.New("constraint violation")
	// ErrNoTransaction is returned by Commit/Rollback without an open transaction.
	ErrNoTransaction = errors.New("no transaction in progress")
)

// Store is the generic per-entity access contract. Reads hit the backing store
// immediately; Add, Update and Remove are staged until UnitOfWork.SaveChanges.
type Store[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Find(ctx context.Context, conds ...Condition) ([]T, error)
	FirstOrDefault(ctx context.Context, conds ...Condition) (*T, error)
	Any(ctx context.Context, conds ...Condition) (bool, error)
	Count(ctx context.Context, conds ...Condition) (int, error)
	Query(ctx context.Context, opts QueryOptions) ([]T, error)
	Add(entity *T)
	Update(entity *T)
	Remove(entity *T)
}

// UserRepository manages persistence for users.
type UserRepository interface {
	Store[domain.User]
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListOrderedByName(ctx context.Context) ([]domain.User, error)
}

// TeamRepository manages persistence for teams and their memberships.
type TeamRepository interface {
	Store[domain.Team]
	GetWithTasks(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	ListOrderedByName(ctx context.Context) ([]domain.Team, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.User, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	AddMember(member domain.TeamMember)
	RemoveMember(teamID, userID uuid.UUID)
}

// TaskRepository manages persistence for tasks.
type TaskRepository interface {
	Store[domain.Task]
	GetDetails(ctx context.Context, id uuid.UUID) (*domain.TaskDetails, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.TaskDetails, int, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RoleRepository manages role definitions and role assignments.
type RoleRepository interface {
	Store[domain.Role]
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	AssignRole(userID, roleID uuid.UUID)
	ClearUserRoles(userID uuid.UUID)
}

// UnitOfWork scopes a set of staged mutations that commit together.
type UnitOfWork interface {
	Users() UserRepository
	Teams() TeamRepository
	Tasks() TaskRepository
	Roles() RoleRepository
	// SaveChanges applies every staged mutation atomically and returns how many were applied.
	SaveChanges(ctx context.Context) (int, error)
	BeginTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
}

// UnitOfWorkFactory creates one UnitOfWork per request.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// TaskSort enumerates the supported task orderings.
type TaskSort string

const (
	TaskSortCreatedAt TaskSort = "createdat"
	TaskSortTitle     TaskSort = "title"
	TaskSortStatus    TaskSort = "status"
	TaskSortDueDate   TaskSort = "duedate"
)

// TaskFilter captures list parameters for tasks.
type TaskFilter struct {
	SearchTerm     string
	Status         *domain.TaskStatus
	AssignToUserID *uuid.UUID
	TeamID         *uuid.UUID
	DueDateFrom    *time.Time
	DueDateTo      *time.Time
	SortBy         TaskSort
	Descending     bool
	Limit          int
	Offset         int
}

// Conditions translates the filter into store conditions.
func (f TaskFilter) Conditions() []Condition {
	var conds []Condition
	if f.SearchTerm != "" {
		conds = append(conds, ContainsFold(f.SearchTerm, "title", "description"))
	}
	if f.Status != nil {
		conds = append(conds, Eq("status", f.Status.Rank()))
	}
	if f.AssignToUserID != nil {
		conds = append(conds, Eq("assign_to_user_id", *f.AssignToUserID))
	}
	if f.TeamID != nil {
		conds = append(conds, Eq("team_id", *f.TeamID))
	}
	if f.DueDateFrom != nil {
		conds = append(conds, Gte("due_date", *f.DueDateFrom))
	}
	if f.DueDateTo != nil {
		conds = append(conds, Lte("due_date", *f.DueDateTo))
	}
	return conds
}

// Order translates the sort key into a store ordering.
func (f TaskFilter) Order() []Order {
	column := "created_at"
	switch f.SortBy {
	case TaskSortTitle:
		column = "title"
	case TaskSortStatus:
		column = "status"
	case TaskSortDueDate:
		column = "due_date"
	}
	return []Order{{Column: column, Desc: f.Descending}}
}
