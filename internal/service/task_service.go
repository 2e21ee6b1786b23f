package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/events"
	"github.com/spec-kit/task-team-service/internal/repository"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TaskService coordinates task workflows.
type TaskService struct {
	uows   repository.UnitOfWorkFactory
	events eventPublisher
	now    Clock
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	UnitOfWorks repository.UnitOfWorkFactory
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       Clock
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	now := deps.Clock
	if now == nil {
		now = systemClock
	}
	return &TaskService{
		uows:   deps.UnitOfWorks,
		events: eventPublisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		now:    now,
	}
}

// TaskListQuery holds raw list parameters before defaults are applied.
type TaskListQuery struct {
	SearchTerm     string
	Status         *domain.TaskStatus
	AssignToUserID *uuid.UUID
	TeamID         *uuid.UUID
	DueDateFrom    *time.Time
	DueDateTo      *time.Time
	SortBy         string
	SortOrder      string
	PageNumber     int
	PageSize       int
}

// TaskPage is one page of task details.
type TaskPage struct {
	Items      []domain.TaskDetails
	TotalCount int
	PageNumber int
	PageSize   int
	TotalPages int
}

// Create adds a task in Todo state.
func (s *TaskService) Create(ctx context.Context, caller domain.Caller, in CreateTaskInput) (*domain.TaskDetails, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}
	createdBy := caller.UserID
	if in.CreatedByUserID != nil {
		createdBy = *in.CreatedByUserID
	}

	uow := s.uows.New()
	if _, err := uow.Users().GetByID(ctx, createdBy); err != nil {
		return nil, failIfNotFound(err, MsgCreatedByNotFound)
	}
	if _, err := uow.Teams().GetByID(ctx, in.TeamID); err != nil {
		return nil, failIfNotFound(err, MsgTeamNotFound)
	}
	if in.AssignToUserID != nil {
		if _, err := uow.Users().GetByID(ctx, *in.AssignToUserID); err != nil {
			return nil, failIfNotFound(err, MsgAssignedUserNotFound)
		}
	}

	task := &domain.Task{
		ID:              uuid.New(),
		Title:           in.Title,
		Description:     in.Description,
		Status:          domain.TaskStatusTodo,
		AssignToUserID:  in.AssignToUserID,
		CreatedByUserID: createdBy,
		TeamID:          in.TeamID,
		DueDate:         in.DueDate,
		CreatedAt:       s.now(),
	}
	uow.Tasks().Add(task)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}

	details, err := uow.Tasks().GetDetails(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.NewEvent(events.EventTaskCreated, task.ID, &caller, events.TaskCreatedPayload{
		Title:          task.Title,
		TeamID:         task.TeamID,
		AssignToUserID: task.AssignToUserID,
	}))
	return details, nil
}

// Update rewrites title, description, team and due date. Status and assignee are untouched.
func (s *TaskService) Update(ctx context.Context, caller domain.Caller, id uuid.UUID, in UpdateTaskInput) (*domain.TaskDetails, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}

	uow := s.uows.New()
	task, err := uow.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgTaskNotFound)
	}
	if _, err := uow.Teams().GetByID(ctx, in.TeamID); err != nil {
		return nil, failIfNotFound(err, MsgTeamNotFound)
	}

	now := s.now()
	task.Title = in.Title
	task.Description = in.Description
	task.TeamID = in.TeamID
	task.DueDate = in.DueDate
	task.UpdatedAt = &now
	uow.Tasks().Update(task)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}

	details, err := uow.Tasks().GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.NewEvent(events.EventTaskUpdated, id, &caller, events.TaskUpdatedPayload{
		Title:  task.Title,
		TeamID: task.TeamID,
	}))
	return details, nil
}

// Assign sets the assignee; a Todo task moves to InProgress.
func (s *TaskService) Assign(ctx context.Context, caller domain.Caller, id uuid.UUID, in AssignTaskInput) (*domain.TaskDetails, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	uow := s.uows.New()
	task, err := uow.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgTaskNotFound)
	}
	if _, err := uow.Users().GetByID(ctx, in.AssignToUserID); err != nil {
		return nil, failIfNotFound(err, MsgAssigneeNotFound)
	}

	now := s.now()
	task.Assign(in.AssignToUserID)
	task.UpdatedAt = &now
	uow.Tasks().Update(task)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}

	details, err := uow.Tasks().GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.NewEvent(events.EventTaskAssigned, id, &caller, events.TaskAssignedPayload{
		AssignToUserID: in.AssignToUserID,
		Status:         task.Status,
	}))
	return details, nil
}

// UpdateStatus moves a task to any status. Employees may only move tasks assigned to them.
func (s *TaskService) UpdateStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, in UpdateTaskStatusInput) (*domain.TaskDetails, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	uow := s.uows.New()
	task, err := uow.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgTaskNotFound)
	}
	if caller.IsEmployee() && !task.IsAssignedTo(caller.UserID) {
		return nil, apperrors.NewFailure(MsgNotYourTask)
	}

	now := s.now()
	previous := task.Status
	task.Status = in.Status
	task.UpdatedAt = &now
	uow.Tasks().Update(task)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}

	details, err := uow.Tasks().GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, events.NewEvent(events.EventTaskStatusChanged, id, &caller, events.TaskStatusChangedPayload{
		OldStatus: previous,
		NewStatus: task.Status,
	}))
	return details, nil
}

// Delete removes a task unconditionally.
func (s *TaskService) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	uow := s.uows.New()
	task, err := uow.Tasks().GetByID(ctx, id)
	if err != nil {
		return failIfNotFound(err, MsgTaskNotFound)
	}
	uow.Tasks().Remove(task)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	s.events.publish(ctx, events.NewEvent(events.EventTaskDeleted, id, &caller, nil))
	return nil
}

// Get returns one task with display names resolved.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*domain.TaskDetails, error) {
	details, err := s.uows.New().Tasks().GetDetails(ctx, id)
	if err != nil {
		return nil, failIfNotFound(err, MsgTaskNotFound)
	}
	return details, nil
}

// List filters, sorts and pages tasks.
func (s *TaskService) List(ctx context.Context, q TaskListQuery) (*TaskPage, error) {
	pageNumber := q.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := q.PageSize
	switch {
	case pageSize < 1:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}

	filter := repository.TaskFilter{
		SearchTerm:     strings.TrimSpace(q.SearchTerm),
		Status:         q.Status,
		AssignToUserID: q.AssignToUserID,
		TeamID:         q.TeamID,
		DueDateFrom:    q.DueDateFrom,
		DueDateTo:      q.DueDateTo,
		SortBy:         parseTaskSort(q.SortBy),
		Descending:     !strings.EqualFold(strings.TrimSpace(q.SortOrder), "asc"),
		Limit:          pageSize,
		Offset:         (pageNumber - 1) * pageSize,
	}

	items, total, err := s.uows.New().Tasks().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.TaskDetails{}
	}
	return &TaskPage{
		Items:      items,
		TotalCount: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func parseTaskSort(raw string) repository.TaskSort {
	switch sort := repository.TaskSort(strings.ToLower(strings.TrimSpace(raw))); sort {
	case repository.TaskSortTitle, repository.TaskSortStatus, repository.TaskSortDueDate:
		return sort
	default:
		return repository.TaskSortCreatedAt
	}
}

// ListOverdue returns unfinished tasks whose due date is at or before now.
func (s *TaskService) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	return s.uows.New().Tasks().Query(ctx, repository.QueryOptions{
		Where: []repository.Condition{
			repository.Lte("due_date", now),
			repository.AnyOf(
				repository.Eq("status", domain.TaskStatusTodo.Rank()),
				repository.Eq("status", domain.TaskStatusInProgress.Rank()),
			),
		},
		OrderBy: []repository.Order{{Column: "due_date"}},
	})
}

// NotifyOverdue publishes one overdue event per unfinished past-due task and
// returns how many were found.
func (s *TaskService) NotifyOverdue(ctx context.Context) (int, error) {
	tasks, err := s.ListOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, task := range tasks {
		s.events.publish(ctx, events.NewEvent(events.EventTaskOverdue, task.ID, nil, events.TaskOverduePayload{
			Title:          task.Title,
			DueDate:        *task.DueDate,
			AssignToUserID: task.AssignToUserID,
		}))
	}
	return len(tasks), nil
}
