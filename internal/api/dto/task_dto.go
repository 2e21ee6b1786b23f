package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/service"
)

// CreateTaskRequest payload. CreatedByUserID defaults to the caller when omitted.
type CreateTaskRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CreatedByUserID *uuid.UUID `json:"createdByUserId"`
	TeamID          uuid.UUID  `json:"teamId"`
	AssignToUserID  *uuid.UUID `json:"assignToUserId"`
	DueDate         *Timestamp `json:"dueDate"`
}

// UpdateTaskRequest payload.
type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TeamID      uuid.UUID  `json:"teamId"`
	DueDate     *Timestamp `json:"dueDate"`
}

// AssignTaskRequest payload.
type AssignTaskRequest struct {
	AssignToUserID uuid.UUID `json:"assignToUserId"`
}

// UpdateTaskStatusRequest payload.
type UpdateTaskStatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}

// TaskResponse is a task with resolved display names.
type TaskResponse struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Status            domain.TaskStatus `json:"status"`
	AssignToUserID    *uuid.UUID        `json:"assignToUserId"`
	AssignToUserName  *string           `json:"assignToUserName"`
	CreatedByUserID   uuid.UUID         `json:"createdByUserId"`
	CreatedByUserName string            `json:"createdByUserName"`
	TeamID            uuid.UUID         `json:"teamId"`
	TeamName          string            `json:"teamName"`
	DueDate           *time.Time        `json:"dueDate"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// PagedResponse wraps one page of results.
type PagedResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

func (r CreateTaskRequest) Input() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:           r.Title,
		Description:     r.Description,
		CreatedByUserID: r.CreatedByUserID,
		TeamID:          r.TeamID,
		AssignToUserID:  r.AssignToUserID,
		DueDate:         utc(r.DueDate),
	}
}

func (r UpdateTaskRequest) Input() service.UpdateTaskInput {
	return service.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		TeamID:      r.TeamID,
		DueDate:     utc(r.DueDate),
	}
}

func NewTaskResponse(t *domain.TaskDetails) TaskResponse {
	return TaskResponse{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		Status:            t.Status,
		AssignToUserID:    t.AssignToUserID,
		AssignToUserName:  t.AssignToUserName,
		CreatedByUserID:   t.CreatedByUserID,
		CreatedByUserName: t.CreatedByUserName,
		TeamID:            t.TeamID,
		TeamName:          t.TeamName,
		DueDate:           t.DueDate,
		CreatedAt:         t.CreatedAt,
	}
}

func NewTaskPage(page *service.TaskPage) PagedResponse[TaskResponse] {
	items := make([]TaskResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, NewTaskResponse(&page.Items[i]))
	}
	return PagedResponse[TaskResponse]{
		Items:      items,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
