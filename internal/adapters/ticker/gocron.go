// Package ticker drives the countdown with a gocron scheduler.
package ticker

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/xvierd/focusguard/internal/ports"
)

// Scheduler implements ports.TickSource with a single gocron duration job.
type Scheduler struct {
	scheduler gocron.Scheduler

	mu    sync.Mutex
	jobID uuid.UUID
	armed bool
}

var _ ports.TickSource = (*Scheduler)(nil)

// NewScheduler creates and starts the underlying gocron scheduler.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.Start()
	return &Scheduler{scheduler: s}, nil
}

// Start replaces the current job with one calling fn every interval. The
// first call happens one interval from now.
func (s *Scheduler) Start(interval time.Duration, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked()
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName("countdown"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule countdown: %w", err)
	}
	s.jobID = job.ID()
	s.armed = true
	return nil
}

// Stop removes the current job.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked()
}

// Shutdown stops the scheduler for good.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) removeLocked() error {
	if !s.armed {
		return nil
	}
	s.armed = false
	if err := s.scheduler.RemoveJob(s.jobID); err != nil {
		return fmt.Errorf("failed to remove countdown: %w", err)
	}
	return nil
}
