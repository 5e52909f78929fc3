package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeJobs struct {
	calls []time.Time
	n     int64
}

func (f *fakeJobs) CloseExpired(_ *gorm.DB, now time.Time) (int64, error) {
	f.calls = append(f.calls, now)
	return f.n, nil
}

type fakeTokens struct{ at time.Time }

func (f *fakeTokens) DeleteExpired(_ *gorm.DB, now time.Time) (int64, error) {
	f.at = now
	return 2, nil
}

type fakeNotifications struct {
	before time.Time
	err    error
}

func (f *fakeNotifications) DeleteReadOlderThan(_ *gorm.DB, before time.Time) (int64, error) {
	f.before = before
	return 0, f.err
}

type fakeLimiter struct{ cleaned int }

func (f *fakeLimiter) Cleanup() int {
	f.cleaned++
	return 3
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestJobWorker_CloseExpiredJobs(t *testing.T) {
	jobs := &fakeJobs{n: 4}
	w := NewJobWorker(nil, jobs, 0)
	w.now = fixedNow

	assert.Equal(t, time.Hour, w.interval)
	assert.Equal(t, int64(4), w.closeExpiredJobs(context.Background()))
	assert.Equal(t, []time.Time{fixedNow()}, jobs.calls)
}

func TestJobWorker_StopsWithContext(t *testing.T) {
	jobs := &fakeJobs{}
	w := NewJobWorker(nil, jobs, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.loop(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Len(t, jobs.calls, 1, "runs once at start")
}

func TestMaintenanceWorker_RunOnce(t *testing.T) {
	tokens := &fakeTokens{}
	notes := &fakeNotifications{err: errors.New("db down")}
	limiter := &fakeLimiter{}

	w := NewMaintenanceWorker(nil, tokens, notes, MaintenanceOptions{Limiter: limiter})
	w.now = fixedNow
	w.runOnce(context.Background())

	assert.Equal(t, fixedNow(), tokens.at)
	assert.Equal(t, fixedNow().Add(-DefaultNotificationRetention), notes.before)
	assert.Equal(t, 1, limiter.cleaned, "a failed step does not stop the others")
}

func TestMaintenanceWorker_NoLimiter(t *testing.T) {
	w := NewMaintenanceWorker(nil, &fakeTokens{}, &fakeNotifications{}, MaintenanceOptions{Retention: time.Hour})
	w.now = fixedNow

	assert.NotPanics(t, func() { w.runOnce(context.Background()) })
	assert.Equal(t, 6*time.Hour, w.interval)
}
