package export

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler re-runs export jobs on cron expressions. A job never overlaps
// with its own previous run.
type Scheduler struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{scheduler: s}
}

func (s *Scheduler) Schedule(expr string, job func()) error {
	if _, err := s.scheduler.Cron(expr).Do(job); err != nil {
		return fmt.Errorf("failed to schedule export %q: %w", expr, err)
	}
	return nil
}

func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
