// Package scheduler runs configured maintenance commands on fixed intervals.
// It is a separate process from the renderer and shares nothing with it
// beyond a log directory; a PID file keeps it single-instance.
package scheduler

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// Job is one scheduled external command.
type Job struct {
	Name     string
	Command  string
	Args     []string
	Interval time.Duration
}

// Scheduler invokes each runnable job every time its interval elapses.
type Scheduler struct {
	jobs       []Job
	pidPath    string
	jobTimeout time.Duration
	logger     *slog.Logger
}

// New filters out jobs with no command or a non-positive interval and returns
// a Scheduler over the rest.
func New(jobs []Job, pidPath string, jobTimeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if pidPath == "" {
		pidPath = DefaultPIDPath()
	}

	var runnable []Job
	for _, job := range jobs {
		if job.Command == "" || job.Interval <= 0 {
			logger.Debug("skipping job", "job", job.Name)
			continue
		}
		runnable = append(runnable, job)
	}
	return &Scheduler{jobs: runnable, pidPath: pidPath, jobTimeout: jobTimeout, logger: logger}
}

// Run claims the PID file and loops until the context is cancelled. Job
// failures are logged, never fatal.
func (s *Scheduler) Run(ctx context.Context) error {
	release, err := AcquirePIDFile(s.pidPath)
	if err != nil {
		return err
	}
	defer release()

	if len(s.jobs) == 0 {
		s.logger.Warn("no runnable jobs configured")
		<-ctx.Done()
		return nil
	}

	next := make([]time.Time, len(s.jobs))
	now := time.Now()
	for i, job := range s.jobs {
		next[i] = now.Add(job.Interval)
	}

	for {
		i := earliest(next)
		timer := time.NewTimer(time.Until(next[i]))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		now = time.Now()
		for j, job := range s.jobs {
			if next[j].After(now) {
				continue
			}
			if err := s.runJob(ctx, job); err != nil && ctx.Err() == nil {
				s.logger.Error("job failed", "job", job.Name, "error", err)
			}
			next[j] = time.Now().Add(job.Interval)
		}
	}
}

// earliest returns the index of the soonest due time.
func earliest(times []time.Time) int {
	idx := 0
	for i, t := range times {
		if t.Before(times[idx]) {
			idx = i
		}
	}
	return idx
}

func (s *Scheduler) runJob(ctx context.Context, job Job) error {
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	s.logger.Info("running job", "job", job.Name, "command", job.Command)
	started := time.Now()

	cmd := exec.CommandContext(ctx, job.Command, job.Args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "running %s (output: %s)", job.Command, string(out))
	}

	s.logger.Info("job finished", "job", job.Name, "elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}
