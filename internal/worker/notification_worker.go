package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/task-team-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// OverdueNotifier publishes one event per unfinished task past its due date.
type OverdueNotifier interface {
	NotifyOverdue(ctx context.Context) (int, error)
}

// OverdueWorker runs the overdue scan on a cron schedule.
type OverdueWorker struct {
	cron     *cron.Cron
	notifier OverdueNotifier
	logger   *zap.Logger
	timeout  time.Duration
}

// NewOverdueWorker parses schedule (standard cron or descriptors such as
// "@every 15m"). An empty schedule returns a nil worker.
func NewOverdueWorker(schedule string, notifier OverdueNotifier, logger *zap.Logger) (*OverdueWorker, error) {
	if schedule == "" {
		return nil, nil
	}
	w := &OverdueWorker{
		cron:     cron.New(),
		notifier: notifier,
		logger:   logger,
		timeout:  time.Minute,
	}
	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid overdue schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start begins scheduling in the background.
func (w *OverdueWorker) Start() {
	if w == nil {
		return
	}
	w.logger.Info("overdue worker started", zap.Int("jobs", len(w.cron.Entries())))
	w.cron.Start()
}

// Stop halts scheduling and waits for a running scan until ctx is done.
func (w *OverdueWorker) Stop(ctx context.Context) {
	if w == nil {
		return
	}
	select {
	case <-w.cron.Stop().Done():
	case <-ctx.Done():
		w.logger.Warn("overdue worker did not stop in time")
	}
}

// RunOnce performs a single scan.
func (w *OverdueWorker) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	n, err := w.notifier.NotifyOverdue(ctx)
	if err != nil {
		w.logger.Error("overdue scan failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("overdue tasks found", zap.Int("count", n))
	}
}
