package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
)

var statusNames = []string{string(TaskStatusTodo), string(TaskStatusInProgress), string(TaskStatusDone)}

// ParseTaskStatus accepts a status name (any case) or its ordinal 1..3.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	value, ok := parseEnum(raw, statusNames)
	return TaskStatus(value), ok
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

// Rank orders statuses the way they are declared.
func (s TaskStatus) Rank() int {
	switch s {
	case TaskStatusTodo:
		return 1
	case TaskStatusInProgress:
		return 2
	case TaskStatusDone:
		return 3
	default:
		return 0
	}
}

// TaskStatusFromRank is the inverse of Rank.
func TaskStatusFromRank(rank int) TaskStatus {
	if rank >= 1 && rank <= len(statusNames) {
		return TaskStatus(statusNames[rank-1])
	}
	return TaskStatus("")
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	*s = TaskStatus(unmarshalEnum(data, statusNames))
	return nil
}

// Task is a unit of work owned by a team.
type Task struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Status          TaskStatus
	AssignToUserID  *uuid.UUID
	CreatedByUserID uuid.UUID
	TeamID          uuid.UUID
	DueDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Assign sets the assignee. A task still in Todo moves to InProgress.
func (t *Task) Assign(userID uuid.UUID) {
	t.AssignToUserID = &userID
	if t.Status == TaskStatusTodo {
		t.Status = TaskStatusInProgress
	}
}

// IsAssignedTo reports whether userID is the current assignee.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignToUserID != nil && *t.AssignToUserID == userID
}

// TaskDetails is a task joined with the display names of its references.
type TaskDetails struct {
	Task
	CreatedByUserName string
	AssignToUserName  *string
	TeamName          string
}
