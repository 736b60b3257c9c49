package worker

import (
	"context"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

// ScheduleAnnouncements enqueues an announcement refresh immediately and then
// every interval until ctx is cancelled. Enqueue failures are logged and the
// next tick tries again.
func ScheduleAnnouncements(ctx context.Context, tasks domain.TaskDispatcher, interval time.Duration, logger *slog.Logger) error {
	logger = logger.With("component", "scheduler")
	enqueue := func() {
		if err := tasks.Enqueue(ctx, domain.RouteSetAnnouncement, nil); err != nil && ctx.Err() == nil {
			logger.ErrorContext(ctx, "enqueue announcement refresh", "err", err)
		}
	}

	enqueue()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			enqueue()
		}
	}
}
