// Package scheduler fires the episode pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amaumene/episodebot/internal/constants"
	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/pkg/logger"
)

// Runner executes one pipeline run for a nominal scheduled time.
type Runner interface {
	Run(ctx context.Context, scheduled time.Time) models.RunReport
}

// Scheduler triggers a Runner on a cron schedule. Runs are not serialized:
// a run still in flight when the next one fires keeps going.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	spec       string
	location   *time.Location
	runTimeout time.Duration
	logger     logger.Logger

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a scheduler for a standard five-field cron spec (descriptors
// such as "@hourly" and "@every 2h" are accepted too).
func New(spec string, loc *time.Location, runner Runner, log logger.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}

	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		runner:     runner,
		spec:       spec,
		location:   loc,
		runTimeout: constants.RunTimeout,
		logger:     log,
	}, nil
}

// Start registers the job and begins the scheduler background loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	id, err := s.cron.AddFunc(s.spec, s.fire)
	if err != nil {
		s.cancel()
		return fmt.Errorf("failed to schedule pipeline: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Infof("[Scheduler] started with schedule %q (%s), next run at %s",
		s.spec, s.location, s.cron.Entry(id).Next.Format(time.RFC3339))
	return nil
}

// Stop halts the schedule and waits for in-flight runs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cronDone := s.cron.Stop()
	s.cron.Remove(s.entryID)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infof("[Scheduler] stopped gracefully")
		s.cancel()
		return nil
	case <-ctx.Done():
		// abort whatever is still running
		s.cancel()
		s.logger.Warnf("[Scheduler] stopped before in-flight runs finished")
		return ctx.Err()
	}
}

// Next returns the next scheduled run time, or the zero time when stopped.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Trigger runs the pipeline immediately and waits for it to finish.
func (s *Scheduler) Trigger(ctx context.Context) models.RunReport {
	s.wg.Add(1)
	defer s.wg.Done()

	s.logger.Infof("[Scheduler] manual run requested")
	return s.runner.Run(ctx, time.Now().In(s.location))
}

// fire is the cron job. The nominal time is the firing second; cron
// schedules never carry sub-second precision.
func (s *Scheduler) fire() {
	s.wg.Add(1)
	defer s.wg.Done()

	scheduled := time.Now().In(s.location).Truncate(time.Second)

	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, s.runTimeout)
	defer cancel()

	report := s.runner.Run(ctx, scheduled)
	s.logger.Infof("[Scheduler] run %s done: %s", report.RunID, report.Message)
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugf("[Scheduler] %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorf("[Scheduler] %s: %v %v", msg, err, keysAndValues)
}
