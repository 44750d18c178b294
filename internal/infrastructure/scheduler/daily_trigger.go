package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of scheduled work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name returns the job name
func (j JobFunc) Name() string { return j.JobName }

// Run calls Fn
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// DailyTriggerConfig holds configuration for the daily trigger
type DailyTriggerConfig struct {
	// RunAfterHour is the local hour from which the day's run may start
	RunAfterHour int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration

	// LockTTL is the shortest lease taken; the lease normally runs to midnight
	LockTTL time.Duration

	// JobTimeout bounds a whole run
	JobTimeout time.Duration
}

// DefaultDailyTriggerConfig returns default trigger configuration
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		RunAfterHour:  3,
		CheckInterval: 10 * time.Minute,
		LockTTL:       15 * time.Minute,
		JobTimeout:    30 * time.Minute,
	}
}

const lockKeyPrefix = "innledger:lock:daily-jobs:"

// DailyTrigger runs its jobs at most once per local calendar day, after
// RunAfterHour. With a Locker, replicas compete for a per-day lease that
// lasts until the day ends, and only the winner runs. A nil Locker or a failing one means the run goes ahead
// unlocked.
type DailyTrigger struct {
	config DailyTriggerConfig
	jobs   []Job
	locker Locker
	logger *zap.Logger
	now    func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewDailyTrigger creates a new daily trigger
func NewDailyTrigger(config DailyTriggerConfig, locker Locker, logger *zap.Logger, jobs ...Job) (*DailyTrigger, error) {
	if config.CheckInterval <= 0 || config.RunAfterHour < 0 || config.RunAfterHour > 23 {
		return nil, ErrInvalidConfig
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 15 * time.Minute
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 30 * time.Minute
	}
	return &DailyTrigger{
		config: config,
		jobs:   jobs,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Start starts the trigger loop
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = true
	d.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("run_after_hour", d.config.RunAfterHour),
		zap.Duration("check_interval", d.config.CheckInterval),
		zap.Int("jobs", len(d.jobs)),
		zap.Bool("locking", d.locker != nil),
	)

	return nil
}

// Stop stops the trigger, waiting for an in-flight run until ctx expires
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	// Check immediately so a restart after the hour does not wait a full interval
	d.checkAndTrigger(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the jobs when the day's run is due. It reports whether
// jobs were executed by this instance.
func (d *DailyTrigger) checkAndTrigger(ctx context.Context) bool {
	now := d.now()
	currentDate := now.Format("2006-01-02")

	d.mu.Lock()
	if d.lastRunDate == currentDate || now.Hour() < d.config.RunAfterHour {
		d.mu.Unlock()
		return false
	}
	d.lastRunDate = currentDate
	d.mu.Unlock()

	if err := d.claim(ctx, now); errors.Is(err, ErrLockHeld) {
		d.logger.Info("Daily jobs already claimed by another instance", zap.String("date", currentDate))
		return false
	}

	d.RunNow(ctx)
	return true
}

// claim takes the day's lease and keeps it until the day is over, so a
// replica checking after this run finished still sees the day as claimed.
// The lease is never released early.
func (d *DailyTrigger) claim(ctx context.Context, now time.Time) error {
	if d.locker == nil {
		return nil
	}
	key := lockKeyPrefix + now.Format("2006-01-02")
	if _, err := d.locker.Obtain(ctx, key, d.leaseTTL(now)); err != nil {
		if errors.Is(err, ErrLockHeld) {
			return err
		}
		d.logger.Warn("Lock unavailable, running daily jobs without it", zap.Error(err))
	}
	return nil
}

// leaseTTL is the time left until the next local midnight, at least LockTTL
func (d *DailyTrigger) leaseTTL(now time.Time) time.Duration {
	y, m, day := now.Date()
	ttl := time.Date(y, m, day+1, 0, 0, 0, 0, now.Location()).Sub(now)
	if ttl < d.config.LockTTL {
		return d.config.LockTTL
	}
	return ttl
}

// RunNow runs every job once, in order. A failing job is logged and does not
// stop the ones after it.
func (d *DailyTrigger) RunNow(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, d.config.JobTimeout)
	defer cancel()

	for _, job := range d.jobs {
		started := time.Now()
		err := runJob(runCtx, job)
		if err != nil {
			d.logger.Error("Daily job failed",
				zap.String("job", job.Name()),
				zap.Duration("duration", time.Since(started)),
				zap.Error(err),
			)
			continue
		}
		d.logger.Info("Daily job completed",
			zap.String("job", job.Name()),
			zap.Duration("duration", time.Since(started)),
		)
	}
}

func runJob(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job.Run(ctx)
}
