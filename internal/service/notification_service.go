package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/task-team-service/internal/events"
	"github.com/spec-kit/task-team-service/internal/observability"
)

// NotificationService logs and counts task events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTaskCreated, n.handleTaskCreated)
	n.dispatcher.Subscribe(events.EventTaskUpdated, n.handleTaskChanged)
	n.dispatcher.Subscribe(events.EventTaskDeleted, n.handleTaskChanged)
	n.dispatcher.Subscribe(events.EventTaskStatusChanged, n.handleTaskStatusChanged)
	n.dispatcher.Subscribe(events.EventTaskAssigned, n.handleTaskAssigned)
	n.dispatcher.Subscribe(events.EventTaskOverdue, n.handleTaskOverdue)
}

func (n *NotificationService) handleTaskCreated(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Info("TaskCreated", n.fields(event)...)
	return nil
}

func (n *NotificationService) handleTaskChanged(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Debug("TaskChanged", n.fields(event)...)
	return nil
}

func (n *NotificationService) handleTaskStatusChanged(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Info("TaskStatusChanged", n.fields(event)...)
	return nil
}

func (n *NotificationService) handleTaskAssigned(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Info("TaskAssigned", n.fields(event)...)
	return nil
}

func (n *NotificationService) handleTaskOverdue(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Warn("TaskOverdue", n.fields(event)...)
	return nil
}

func (n *NotificationService) fields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_type", string(event.Type)),
		zap.String("task_id", event.TaskID.String()),
		zap.Any("payload", event.Payload),
	}
	if event.Actor != nil {
		fields = append(fields, zap.String("actor_id", event.Actor.UserID.String()))
	}
	return fields
}
