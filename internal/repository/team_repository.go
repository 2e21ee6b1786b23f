package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

type pgTeamRepository struct {
	*pgStore[domain.Team]
}

func (r *pgTeamRepository) GetWithTasks(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	team, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := r.uow.tasks.Query(ctx, QueryOptions{
		Where:   []Condition{Eq("team_id", id)},
		OrderBy: []Order{{Column: "created_at"}},
	})
	if err != nil {
		return nil, err
	}
	team.Tasks = tasks
	return team, nil
}

func (r *pgTeamRepository) ListOrderedByName(ctx context.Context) ([]domain.Team, error) {
	return r.Query(ctx, QueryOptions{OrderBy: []Order{{Column: "name"}}})
}

func (r *pgTeamRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.User, error) {
	query := `
        SELECT ` + qualified("u.", usersTable.columns) + `
        FROM users u
        JOIN team_members tm ON tm.user_id = u.id
        WHERE tm.team_id=$1
        ORDER BY u.full_name, u.id`
	rows, err := r.uow.conn().Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := usersTable.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *pgTeamRepository) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id=$1 AND user_id=$2)`
	var exists bool
	if err := r.uow.conn().QueryRow(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *pgTeamRepository) AddMember(member domain.TeamMember) {
	const query = `
        INSERT INTO team_members (team_id, user_id, joined_at) VALUES ($1, $2, $3)
        ON CONFLICT (team_id, user_id) DO NOTHING`
	r.uow.stage(func(ctx context.Context, q querier) error {
		_, err := q.Exec(ctx, query, member.TeamID, member.UserID, member.JoinedAt)
		return err
	})
}

func (r *pgTeamRepository) RemoveMember(teamID, userID uuid.UUID) {
	const query = `DELETE FROM team_members WHERE team_id=$1 AND user_id=$2`
	r.uow.stage(func(ctx context.Context, q querier) error {
		_, err := q.Exec(ctx, query, teamID, userID)
		return err
	})
}
