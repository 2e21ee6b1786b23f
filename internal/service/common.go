package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/task-team-service/internal/events"
	"github.com/spec-kit/task-team-service/internal/repository"
	apperrors "github.com/spec-kit/task-team-service/pkg/util/errorutil"
)

// Clock returns the current time. Services store UTC at microsecond precision
// so both storage backends round-trip timestamps unchanged.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// failIfNotFound converts a missing-row error into a business failure.
func failIfNotFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewFailure(message)
	}
	return err
}

// exists reports whether a lookup found its row, treating ErrNotFound as false.
func exists[T any](_ *T, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

type eventPublisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// publish never fails the caller; handler errors are logged.
func (p eventPublisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("task_id", event.TaskID.String()),
			zap.Error(err))
	}
}
