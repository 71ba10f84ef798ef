package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// CodeCleaner removes expired verification codes.
type CodeCleaner interface {
	CleanupExpiredCodes() (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	spec    string
	cleaner CodeCleaner
}

func New(spec string, loc *time.Location, cleaner CodeCleaner) *Scheduler {
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:    c,
		spec:    spec,
		cleaner: cleaner,
	}
}

// Start registers the jobs and runs them on the cron goroutine. An invalid
// spec is returned as an error.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.cleanupCodes)
	if err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("scheduler started", "cleanup_schedule", s.spec)

	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) cleanupCodes() {
	_, err := s.cleaner.CleanupExpiredCodes()
	if err != nil {
		slog.Error("failed to clean up verification codes", "error", err)
	}
}
