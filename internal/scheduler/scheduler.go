package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Job is a named periodic task. Run is invoked once per interval; a
// returned error is logged and the job keeps running.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler drives the economy's background jobs: market ticks, deposit
// maturation and similar. Each job runs on its own ticker; ticks of one
// job never overlap because the next tick waits for the previous Run to
// return.
type Scheduler struct {
	jobs   []Job
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// New creates a new Scheduler.
func New(logger zerolog.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:   jobs,
		logger: logger,
	}
}

// Start launches one goroutine per job and returns. Stop with the
// context; Wait blocks until all jobs have exited.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}
}

// Wait blocks until all job goroutines have stopped.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	s.logger.Info().
		Str("job", job.Name).
		Dur("interval", job.Interval).
		Msg("scheduler job started")

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str("job", job.Name).Msg("scheduler job stopped")
			return
		case <-ticker.C:
			if err := job.Run(ctx); err != nil {
				s.logger.Error().
					Err(err).
					Str("job", job.Name).
					Msg("scheduler job tick failed")
			}
		}
	}
}
