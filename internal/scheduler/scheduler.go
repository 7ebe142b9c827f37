package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

// Maintainer runs periodic housekeeping on the record database.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// Scheduler periodically runs database maintenance.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Maintainer
	interval  time.Duration
	log       *zap.Logger
}

// New creates a new Scheduler. An interval of zero or less disables it.
func New(target Maintainer, interval time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the maintenance job and starts the underlying scheduler.
// The first run happens one interval after start.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("scheduler: maintenance disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler: maintenance scheduled", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := s.target.Maintain(ctx); err != nil {
		s.log.Warn("scheduler: maintenance failed", zap.Error(err))
		return
	}
	s.log.Debug("scheduler: maintenance complete", zap.Duration("took", time.Since(start)))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
