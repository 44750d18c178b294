package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeLocker behaves like redislock: release deletes the key
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]time.Duration
	err  error
}

func (f *fakeLocker) Obtain(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.held[key]; ok {
		return nil, ErrLockHeld
	}
	f.held[key] = ttl
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, key)
		return nil
	}, nil
}

type countingJob struct {
	name  string
	runs  int
	err   error
	panic bool
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	if j.panic {
		panic("boom")
	}
	return j.err
}

func newTrigger(t *testing.T, locker Locker, at time.Time, jobs ...Job) *DailyTrigger {
	t.Helper()
	cfg := DefaultDailyTriggerConfig()
	cfg.RunAfterHour = 3
	d, err := NewDailyTrigger(cfg, locker, zap.NewNop(), jobs...)
	require.NoError(t, err)
	d.now = func() time.Time { return at }
	return d
}

func TestDailyTrigger_RunsOncePerDayAfterHour(t *testing.T) {
	job := &countingJob{name: "sync"}
	at := time.Date(2024, 3, 10, 2, 59, 0, 0, time.Local)
	d := newTrigger(t, nil, at, job)

	assert.False(t, d.checkAndTrigger(context.Background()), "before the hour")
	assert.Equal(t, 0, job.runs)

	at = at.Add(2 * time.Minute)
	d.now = func() time.Time { return at }
	assert.True(t, d.checkAndTrigger(context.Background()))
	assert.False(t, d.checkAndTrigger(context.Background()), "same day")
	assert.Equal(t, 1, job.runs)

	next := at.AddDate(0, 0, 1)
	d.now = func() time.Time { return next }
	assert.True(t, d.checkAndTrigger(context.Background()))
	assert.Equal(t, 2, job.runs)
}

func TestDailyTrigger_OnlyOneReplicaRuns(t *testing.T) {
	locker := &fakeLocker{held: map[string]time.Duration{}}
	at := time.Date(2024, 3, 10, 4, 0, 0, 0, time.Local)

	second := &countingJob{name: "b"}
	replicaB := newTrigger(t, locker, at, second)

	// another replica holds the lease while B checks
	release, err := locker.Obtain(context.Background(), lockKeyPrefix+"2024-03-10", time.Minute)
	require.NoError(t, err)
	assert.False(t, replicaB.checkAndTrigger(context.Background()))
	assert.Equal(t, 0, second.runs)
	require.NoError(t, release(context.Background()))
}

func TestDailyTrigger_ReplicasCheckingLaterSameDayDoNotRerun(t *testing.T) {
	locker := &fakeLocker{held: map[string]time.Duration{}}
	job := &countingJob{name: "sync"}

	// Two triggers sharing a locker stand in for two replicas
	replicaA := newTrigger(t, locker, time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), job)
	replicaB := newTrigger(t, locker, time.Date(2024, 3, 1, 3, 5, 0, 0, time.UTC), job)

	assert.True(t, replicaA.checkAndTrigger(context.Background()))
	assert.False(t, replicaB.checkAndTrigger(context.Background()))
	assert.Equal(t, 1, job.runs)

	ttl, ok := locker.held[lockKeyPrefix+"2024-03-01"]
	require.True(t, ok, "lease is kept after the run")
	assert.Equal(t, 21*time.Hour, ttl)

	nextDay := newTrigger(t, locker, time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC), job)
	assert.True(t, nextDay.checkAndTrigger(context.Background()))
	assert.Equal(t, 2, job.runs)
}

func TestDailyTrigger_LeaseTTL(t *testing.T) {
	d := newTrigger(t, nil, time.Now())

	assert.Equal(t, 20*time.Hour, d.leaseTTL(time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC)))
	// close to midnight the configured minimum applies
	assert.Equal(t, d.config.LockTTL, d.leaseTTL(time.Date(2024, 3, 1, 23, 55, 0, 0, time.UTC)))
}

func TestDailyTrigger_LockerFailureRunsUnlocked(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	locker := &fakeLocker{err: errors.New("connection refused")}
	job := &countingJob{name: "sync"}

	d, err := NewDailyTrigger(DefaultDailyTriggerConfig(), locker, zap.New(core), job)
	require.NoError(t, err)
	d.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local) }

	assert.True(t, d.checkAndTrigger(context.Background()))
	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 1, logs.FilterMessage("Lock unavailable, running daily jobs without it").Len())
}

func TestDailyTrigger_FailingJobDoesNotStopOthers(t *testing.T) {
	failing := &countingJob{name: "fail", err: errors.New("upstream down")}
	panicking := &countingJob{name: "panic", panic: true}
	last := &countingJob{name: "last"}

	d := newTrigger(t, nil, time.Now(), failing, panicking, last)
	d.RunNow(context.Background())

	assert.Equal(t, 1, failing.runs)
	assert.Equal(t, 1, panicking.runs)
	assert.Equal(t, 1, last.runs)
}

func TestNewDailyTrigger_InvalidConfig(t *testing.T) {
	_, err := NewDailyTrigger(DailyTriggerConfig{RunAfterHour: 24, CheckInterval: time.Minute}, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewDailyTrigger(DailyTriggerConfig{RunAfterHour: 1}, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDailyTrigger_StartStop(t *testing.T) {
	cfg := DefaultDailyTriggerConfig()
	cfg.CheckInterval = time.Hour
	d, err := NewDailyTrigger(cfg, nil, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	require.NoError(t, d.Stop(ctx))
}
