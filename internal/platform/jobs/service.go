package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	JobWorkspaceSweep = "workspace_sweep"
	JobSessionPurge   = "session_purge"
)

// Task is one housekeeping run. The returned details are logged.
type Task func(ctx context.Context) (any, error)

type schedule struct {
	name     string
	interval time.Duration
	run      Task
}

// Service runs periodic housekeeping on a single worker so runs never overlap.
type Service struct {
	queue     chan job
	schedules []schedule
	wg        sync.WaitGroup
}

type job struct {
	Type string
	Run  Task
}

func New() *Service {
	return &Service{queue: make(chan job, 16)}
}

// Every registers run to be enqueued each interval. Intervals of zero or less disable it.
// Call before Start.
func (s *Service) Every(name string, interval time.Duration, run Task) {
	if interval <= 0 {
		return
	}
	s.schedules = append(s.schedules, schedule{name: name, interval: interval, run: run})
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	for _, sc := range s.schedules {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tick(ctx, sc)
		}()
	}
}

// Wait blocks until every goroutine started by Start has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType string, run Task) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run Task) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	started := time.Now()
	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	slog.Debug("job run", "jobType", j.Type, "status", status, "details", details, "duration", time.Since(started))
	return details, err
}

func (s *Service) tick(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.name, sc.run)
		}
	}
}
