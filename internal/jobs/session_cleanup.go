package jobs

import (
	"context"
	"time"

	"billboard-report/internal/data/repository"

	"go.uber.org/zap"
)

const sessionCleanupTimeout = 30 * time.Second

// SessionCleaner is the part of the session repository the job needs.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

var _ SessionCleaner = (repository.SessionRepository)(nil)

// StartSessionCleanupJob deletes long-expired sessions every interval until ctx ends.
func StartSessionCleanupJob(ctx context.Context, sessions SessionCleaner, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	log = log.With(zap.String("job", "session_cleanup"))

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info("Session cleanup job stopped")
				return
			case <-ticker.C:
				runSessionCleanup(ctx, sessions, log)
			}
		}
	}()
}

func runSessionCleanup(ctx context.Context, sessions SessionCleaner, log *zap.Logger) {
	tickCtx, cancel := context.WithTimeout(ctx, sessionCleanupTimeout)
	defer cancel()

	removed, err := sessions.CleanExpiredSessions(tickCtx)
	if err != nil {
		log.Error("Session cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		log.Info("Expired sessions removed", zap.Int64("count", removed))
	}
}
