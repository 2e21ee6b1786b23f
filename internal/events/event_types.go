package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskUpdated       EventType = "task_updated"
	EventTaskAssigned      EventType = "task_assigned"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventTaskDeleted       EventType = "task_deleted"
	EventTaskOverdue       EventType = "task_overdue"
)

// AllEventTypes lists every type a publisher may subscribe to.
func AllEventTypes() []EventType {
	return []EventType{
		EventTaskCreated,
		EventTaskUpdated,
		EventTaskAssigned,
		EventTaskStatusChanged,
		EventTaskDeleted,
		EventTaskOverdue,
	}
}

// Actor identifies who caused an event. It is nil for scheduled events.
type Actor struct {
	UserID uuid.UUID       `json:"userId"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        uuid.UUID   `json:"id"`
	Type      EventType   `json:"type"`
	TaskID    uuid.UUID   `json:"taskId"`
	Actor     *Actor      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps a fresh id and timestamp.
func NewEvent(eventType EventType, taskID uuid.UUID, caller *domain.Caller, payload interface{}) Event {
	event := Event{
		ID:        uuid.New(),
		Type:      eventType,
		TaskID:    taskID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if caller != nil {
		event.Actor = &Actor{UserID: caller.UserID, Role: caller.Role}
	}
	return event
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	Title          string     `json:"title"`
	TeamID         uuid.UUID  `json:"teamId"`
	AssignToUserID *uuid.UUID `json:"assignToUserId,omitempty"`
}

// TaskUpdatedPayload payload.
type TaskUpdatedPayload struct {
	Title  string    `json:"title"`
	TeamID uuid.UUID `json:"teamId"`
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	AssignToUserID uuid.UUID         `json:"assignToUserId"`
	Status         domain.TaskStatus `json:"status"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	OldStatus domain.TaskStatus `json:"oldStatus"`
	NewStatus domain.TaskStatus `json:"newStatus"`
}

// TaskOverduePayload payload.
type TaskOverduePayload struct {
	Title          string     `json:"title"`
	DueDate        time.Time  `json:"dueDate"`
	AssignToUserID *uuid.UUID `json:"assignToUserId,omitempty"`
}
