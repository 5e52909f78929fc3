package workers

import (
	"context"
	"time"

	"credmatrix_backend/internal/logger"

	"gorm.io/gorm"
)

// DefaultNotificationRetention is how long read notifications are kept.
const DefaultNotificationRetention = 30 * 24 * time.Hour

type refreshTokenCleaner interface {
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)
}

type notificationCleaner interface {
	DeleteReadOlderThan(db *gorm.DB, before time.Time) (int64, error)
}

// visitorCleaner is satisfied by *middleware.MemoryLimiter.
type visitorCleaner interface {
	Cleanup() int
}

// MaintenanceWorker purges expired refresh tokens, old read notifications
// and idle rate limiter entries.
type MaintenanceWorker struct {
	db            *gorm.DB
	tokens        refreshTokenCleaner
	notifications notificationCleaner
	limiter       visitorCleaner
	retention     time.Duration
	interval      time.Duration
	now           func() time.Time
}

type MaintenanceOptions struct {
	Interval  time.Duration
	Retention time.Duration
	// Limiter is optional; only the in-memory limiter needs cleanup.
	Limiter visitorCleaner
}

func NewMaintenanceWorker(db *gorm.DB, tokens refreshTokenCleaner, notifications notificationCleaner, opts MaintenanceOptions) *MaintenanceWorker {
	if opts.Interval <= 0 {
		opts.Interval = 6 * time.Hour
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultNotificationRetention
	}
	return &MaintenanceWorker{
		db:            db,
		tokens:        tokens,
		notifications: notifications,
		limiter:       opts.Limiter,
		retention:     opts.Retention,
		interval:      opts.Interval,
		now:           time.Now,
	}
}

func (w *MaintenanceWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *MaintenanceWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("maintenance worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *MaintenanceWorker) runOnce(ctx context.Context) {
	db := scoped(ctx, w.db)
	now := w.now().UTC()

	tokens, err := w.tokens.DeleteExpired(db, now)
	logger.WorkerLog("maintenance", "delete_expired_refresh_tokens", tokens, err)

	notes, err := w.notifications.DeleteReadOlderThan(db, now.Add(-w.retention))
	logger.WorkerLog("maintenance", "delete_read_notifications", notes, err)

	if w.limiter != nil {
		logger.WorkerLog("maintenance", "rate_limiter_cleanup", int64(w.limiter.Cleanup()), nil)
	}
}
