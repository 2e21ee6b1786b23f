package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

type pgUserRepository struct {
	*pgStore[domain.User]
}

func (r *pgUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FirstOrDefault(ctx, EqFold("email", email))
}

func (r *pgUserRepository) ListOrderedByName(ctx context.Context) ([]domain.User, error) {
	return r.Query(ctx, QueryOptions{OrderBy: []Order{{Column: "full_name"}}})
}

type pgRoleRepository struct {
	*pgStore[domain.Role]
}

func (r *pgRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.FirstOrDefault(ctx, Eq("name", name))
}

func (r *pgRoleRepository) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const query = `
        SELECT r.name FROM roles r
        JOIN user_roles ur ON ur.role_id = r.id
        WHERE ur.user_id=$1
        ORDER BY r.name`
	rows, err := r.uow.conn().Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *pgRoleRepository) AssignRole(userID, roleID uuid.UUID) {
	const query = `
        INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
        ON CONFLICT (user_id, role_id) DO NOTHING`
	r.uow.stage(func(ctx context.Context, q querier) error {
		if _, err := q.Exec(ctx, query, userID, roleID); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		return nil
	})
}

func (r *pgRoleRepository) ClearUserRoles(userID uuid.UUID) {
	const query = `DELETE FROM user_roles WHERE user_id=$1`
	r.uow.stage(func(ctx context.Context, q querier) error {
		_, err := q.Exec(ctx, query, userID)
		return err
	})
}
