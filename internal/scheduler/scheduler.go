// Package scheduler runs recurring jobs, mainly the daily automation sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// JobFunc is the work a job performs.
type JobFunc func(ctx context.Context) error

// Schedule says when a job fires: at a fixed interval, or daily at an hour.
type Schedule struct {
	Interval  time.Duration // Fires every Interval when > 0
	DailyHour int           // Fires daily at this local hour when Interval == 0
}

// Job is a registered recurring job.
type Job struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Schedule  Schedule      `json:"schedule"`
	Fn        JobFunc       `json:"-"`
	Timeout   time.Duration `json:"timeout"`
	LastRun   *time.Time    `json:"last_run,omitempty"`
	RunCount  int64         `json:"run_count"`
	ErrCount  int64         `json:"err_count"`
	LastError string        `json:"last_error,omitempty"`
}

// Scheduler owns a set of jobs and their goroutines.
type Scheduler struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	tz      *time.Location
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New creates a scheduler in the given timezone. Unknown zones fall back to
// the host's local zone.
func New(timezone string) *Scheduler {
	tz, err := time.LoadLocation(timezone)
	if err != nil {
		tz = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*Job),
		tz:     tz,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job. Registering while running starts it immediately.
func (s *Scheduler) Register(job *Job) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}
	if job.Fn == nil {
		return fmt.Errorf("job %s has no function", job.ID)
	}
	if job.Timeout == 0 {
		job.Timeout = 5 * time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	if s.started {
		s.launch(job)
	}
	return nil
}

// Start launches every registered job.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	s.started = true
	for _, job := range s.jobs {
		s.launch(job)
	}
	return nil
}

// Stop cancels all jobs and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()
}

// RunNow fires a job outside its schedule.
func (s *Scheduler) RunNow(jobID string) error {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	ctx := s.ctx
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}
	go s.execute(ctx, job)
	return nil
}

// Jobs returns a snapshot of all registered jobs.
func (s *Scheduler) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	return out
}

func (s *Scheduler) launch(job *Job) {
	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			wait := s.untilNext(job.Schedule)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
				s.execute(ctx, job)
			}
		}
	}()
}

func (s *Scheduler) execute(ctx context.Context, job *Job) {
	execCtx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	now := time.Now()
	s.mu.Lock()
	job.LastRun = &now
	job.RunCount++
	s.mu.Unlock()

	err := job.Fn(execCtx)

	s.mu.Lock()
	if err != nil {
		job.ErrCount++
		job.LastError = err.Error()
	} else {
		job.LastError = ""
	}
	s.mu.Unlock()
}

func (s *Scheduler) untilNext(schedule Schedule) time.Duration {
	if schedule.Interval > 0 {
		return schedule.Interval
	}

	now := time.Now().In(s.tz)
	next := time.Date(now.Year(), now.Month(), now.Day(), schedule.DailyHour, 0, 0, 0, s.tz)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

// IntervalJob builds a job firing every interval.
func IntervalJob(id, name string, interval time.Duration, fn JobFunc) *Job {
	return &Job{ID: id, Name: name, Schedule: Schedule{Interval: interval}, Fn: fn}
}

// DailyJob builds a job firing once a day at the given hour.
func DailyJob(id, name string, hour int, fn JobFunc) *Job {
	return &Job{ID: id, Name: name, Schedule: Schedule{DailyHour: hour}, Fn: fn}
}
