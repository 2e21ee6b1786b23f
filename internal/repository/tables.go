package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

type columnSet struct {
	name    string
	columns []string
}

func (c columnSet) columnIndex(column string) int {
	for i, col := range c.columns {
		if col == column {
			return i
		}
	}
	return -1
}

// table describes how an entity maps onto one relational table. values returns
// column values in the same order as columns; memory-backed stores evaluate
// conditions against the same values.
type table[T any] struct {
	columnSet
	id     func(*T) uuid.UUID
	values func(*T) []any
	scan   func(scanner) (*T, error)
}

func (t *table[T]) value(entity *T, column string) any {
	idx := t.columnIndex(column)
	if idx < 0 {
		return nil
	}
	return t.values(entity)[idx]
}

var usersTable = &table[domain.User]{
	columnSet: columnSet{
		name:    "users",
		columns: []string{"id", "email", "password_hash", "full_name", "role", "created_at", "updated_at"},
	},
	id: func(u *domain.User) uuid.UUID { return u.ID },
	values: func(u *domain.User) []any {
		return []any{u.ID, u.Email, u.PasswordHash, u.FullName, string(u.Role), u.CreatedAt, u.UpdatedAt}
	},
	scan: func(row scanner) (*domain.User, error) {
		var (
			user domain.User
			role string
		)
		if err := row.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.FullName,
			&role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		parsed, ok := domain.ParseUserRole(role)
		if !ok {
			return nil, fmt.Errorf("users: unknown role %q", role)
		}
		user.Role = parsed
		return &user, nil
	},
}

var teamsTable = &table[domain.Team]{
	columnSet: columnSet{
		name:    "teams",
		columns: []string{"id", "name", "description", "created_at", "updated_at"},
	},
	id: func(t *domain.Team) uuid.UUID { return t.ID },
	values: func(t *domain.Team) []any {
		return []any{t.ID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt}
	},
	scan: func(row scanner) (*domain.Team, error) {
		var team domain.Team
		if err := row.Scan(
			&team.ID,
			&team.Name,
			&team.Description,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		return &team, nil
	},
}

// Task status is persisted as its ordinal so that sorting by status follows
// declaration order.
var tasksTable = &table[domain.Task]{
	columnSet: columnSet{
		name: "tasks",
		columns: []string{
			"id", "title", "description", "status", "assign_to_user_id",
			"created_by_user_id", "team_id", "due_date", "created_at", "updated_at",
		},
	},
	id: func(t *domain.Task) uuid.UUID { return t.ID },
	values: func(t *domain.Task) []any {
		return []any{
			t.ID, t.Title, t.Description, t.Status.Rank(), t.AssignToUserID,
			t.CreatedByUserID, t.TeamID, t.DueDate, t.CreatedAt, t.UpdatedAt,
		}
	},
	scan: func(row scanner) (*domain.Task, error) {
		return scanTask(row)
	},
}

var rolesTable = &table[domain.Role]{
	columnSet: columnSet{
		name:    "roles",
		columns: []string{"id", "name"},
	},
	id: func(r *domain.Role) uuid.UUID { return r.ID },
	values: func(r *domain.Role) []any {
		return []any{r.ID, r.Name}
	},
	scan: func(row scanner) (*domain.Role, error) {
		var role domain.Role
		if err := row.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		return &role, nil
	},
}

func scanTask(row scanner, extra ...any) (*domain.Task, error) {
	var (
		task   domain.Task
		status int16
		due    *time.Time
	)
	dest := []any{
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&task.AssignToUserID,
		&task.CreatedByUserID,
		&task.TeamID,
		&due,
		&task.CreatedAt,
		&task.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatusFromRank(int(status))
	task.DueDate = due
	return &task, nil
}
