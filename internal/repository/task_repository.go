package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

type pgTaskRepository struct {
	*pgStore[domain.Task]
}

const taskDetailsJoins = `
        FROM tasks t
        JOIN users cu ON cu.id = t.created_by_user_id
        LEFT JOIN users au ON au.id = t.assign_to_user_id
        JOIN teams tm ON tm.id = t.team_id`

func taskDetailsSelect() string {
	return `SELECT ` + qualified("t.", tasksTable.columns) + `, cu.full_name, au.full_name, tm.name` + taskDetailsJoins
}

func (r *pgTaskRepository) GetDetails(ctx context.Context, id uuid.UUID) (*domain.TaskDetails, error) {
	query := taskDetailsSelect() + ` WHERE t.id=$1`
	details, err := scanTaskDetails(r.uow.conn().QueryRow(ctx, query, id))
	if err != nil {
		return nil, translatePgError(err)
	}
	return details, nil
}

func (r *pgTaskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.TaskDetails, int, error) {
	conds := filter.Conditions()
	orders := filter.Order()
	if err := validateColumns(tasksTable.columnSet, conds, orders); err != nil {
		return nil, 0, err
	}

	countBuilder := &sqlBuilder{}
	countQuery := `SELECT COUNT(*) FROM tasks t` + countBuilder.where("t.", conds)
	var total int
	if err := r.uow.conn().QueryRow(ctx, countQuery, countBuilder.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	b := &sqlBuilder{}
	query := taskDetailsSelect() + b.where("t.", conds) + b.orderAndPage("t.", orders, filter.Limit, filter.Offset)
	rows, err := r.uow.conn().Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.TaskDetails
	for rows.Next() {
		details, err := scanTaskDetails(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *details)
	}
	return result, total, rows.Err()
}

func (r *pgTaskRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.Any(ctx, AnyOf(Eq("created_by_user_id", userID), Eq("assign_to_user_id", userID)))
}

func scanTaskDetails(row scanner) (*domain.TaskDetails, error) {
	var (
		creator  string
		assignee *string
		teamName string
	)
	task, err := scanTask(row, &creator, &assignee, &teamName)
	if err != nil {
		return nil, err
	}
	return &domain.TaskDetails{
		Task:              *task,
		CreatedByUserName: creator,
		AssignToUserName:  assignee,
		TeamName:          teamName,
	}, nil
}
