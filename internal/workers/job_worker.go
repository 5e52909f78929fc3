package workers

import (
	"context"
	"time"

	"credmatrix_backend/internal/logger"

	"gorm.io/gorm"
)

type jobCloser interface {
	CloseExpired(db *gorm.DB, now time.Time) (int64, error)
}

// JobWorker closes active jobs whose deadline has passed.
type JobWorker struct {
	db       *gorm.DB
	jobs     jobCloser
	interval time.Duration
	now      func() time.Time
}

func NewJobWorker(db *gorm.DB, jobs jobCloser, interval time.Duration) *JobWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &JobWorker{db: db, jobs: jobs, interval: interval, now: time.Now}
}

// Start запускает фоновое закрытие вакансий
func (w *JobWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *JobWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.closeExpiredJobs(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("job worker stopped")
			return
		case <-ticker.C:
			w.closeExpiredJobs(ctx)
		}
	}
}

func (w *JobWorker) closeExpiredJobs(ctx context.Context) int64 {
	closed, err := w.jobs.CloseExpired(scoped(ctx, w.db), w.now().UTC())
	logger.WorkerLog("jobs", "close_expired", closed, err)
	return closed
}

// scoped binds ctx to db; a nil db stays nil for callers that never touch it.
func scoped(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db == nil {
		return nil
	}
	return db.WithContext(ctx)
}
