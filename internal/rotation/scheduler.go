package rotation

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler fires a job on a standard five-field cron expression.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	logger *zap.Logger
}

func NewScheduler(ctx context.Context, spec string, loc *time.Location, job func(ctx context.Context), logger ...*zap.Logger) (*Scheduler, error) {
	l := zap.L().Named("rotation.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rotation.scheduler")
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, spec: spec, logger: l}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("rotation schedule started", zap.String("cron", s.spec))
}

// Stop prevents new firings and waits for a running job to return or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("rotation job still running at shutdown")
	}
}

// Next reports when the job fires next; zero if nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
