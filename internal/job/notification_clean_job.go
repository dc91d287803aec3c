package job

import (
	"Campus/internal/pkg/logger"
	"Campus/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NotificationCleanJob 定期清理超过保留期的已读通知
type NotificationCleanJob struct {
	notifySvc service.NotificationService
}

func NewNotificationCleanJob(notifySvc service.NotificationService) *NotificationCleanJob {
	return &NotificationCleanJob{notifySvc: notifySvc}
}

func (s *NotificationCleanJob) Run() {
	traceID := "job-notify-clean-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	deleted, err := s.notifySvc.CleanupRead(ctx)
	if err != nil {
		log.ErrorContext(ctx, "notification cleanup failed", "err", errors.Wrap(err, "cleanup read notifications"))
		return
	}

	if deleted > 0 {
		log.InfoContext(ctx, "notification cleanup finished", "deleted", deleted)
	}
}
