// Package supervisor runs an agent command in a restart loop, feeding its
// combined output through the transcript renderer and teeing it verbatim to a
// dated log file. Iteration boundaries are injected into the stream as
// lifecycle marker records so they render like any other event.
package supervisor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/isaacphi/tracetail/internal/render"
)

// Config describes one supervised run.
type Config struct {
	Command       string
	Args          []string
	MaxIterations int // 0 = run until the context is cancelled
	Delay         time.Duration
	LogDir        string
}

// Summary reports what a supervised run did, for the shutdown message.
type Summary struct {
	RunID      string
	Iterations int
	Elapsed    time.Duration
}

// Supervisor spawns the agent repeatedly until interrupted or the iteration
// limit is reached.
type Supervisor struct {
	cfg      Config
	renderer *render.Renderer
	logger   *slog.Logger
}

// New validates cfg and builds a Supervisor rendering to r.
func New(cfg Config, r *render.Renderer, logger *slog.Logger) (*Supervisor, error) {
	if cfg.Command == "" {
		return nil, errors.New("no agent command configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{cfg: cfg, renderer: r, logger: logger}, nil
}

// Run executes the restart loop. Agent failures are logged and the loop
// continues; only setup problems (e.g. an unwritable log directory) abort.
// Cancellation between or during iterations is the normal shutdown path.
func (s *Supervisor) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	start := time.Now()

	if err := os.MkdirAll(s.cfg.LogDir, 0o755); err != nil {
		return summary, errors.Wrap(err, "creating log directory")
	}

	for i := 1; s.cfg.MaxIterations == 0 || i <= s.cfg.MaxIterations; i++ {
		if ctx.Err() != nil {
			break
		}

		if err := s.runIteration(ctx, summary.RunID, i); err != nil {
			if ctx.Err() != nil {
				break
			}
			return summary, err
		}
		summary.Iterations = i

		if s.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.cfg.Delay):
			}
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

func (s *Supervisor) runIteration(ctx context.Context, runID string, iteration int) error {
	logPath := filepath.Join(s.cfg.LogDir,
		fmt.Sprintf("agent-%s-%03d.log", time.Now().Format("20060102-150405"), iteration))
	logFile, err := os.Create(logPath)
	if err != nil {
		return errors.Wrapf(err, "creating log file %s", logPath)
	}
	defer logFile.Close()

	s.logger.Info("starting iteration", "iteration", iteration, "log", logPath)
	s.feed(logFile, marker(map[string]any{
		"type":      "iteration_start",
		"iteration": iteration,
		"timestamp": time.Now().Format(time.RFC3339),
		"run_id":    runID,
	}))

	started := time.Now()
	err = s.runAgent(ctx, logFile)
	elapsed := int(time.Since(started).Seconds())

	s.feed(logFile, marker(map[string]any{
		"type":            "iteration_end",
		"iteration":       iteration,
		"elapsed_seconds": elapsed,
		"run_id":          runID,
	}))

	if err != nil && ctx.Err() == nil {
		// A failing agent run is not fatal to the loop.
		s.logger.Warn("agent exited with error", "iteration", iteration, "error", err)
	}
	return nil
}

// runAgent spawns the agent with stdout and stderr combined, streaming each
// line to the log and the renderer in order.
func (s *Supervisor) runAgent(ctx context.Context, logFile io.Writer) error {
	cmd := exec.CommandContext(ctx, s.cfg.Command, s.cfg.Args...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return errors.Wrapf(err, "starting %s", s.cfg.Command)
	}

	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		done <- err
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		s.feed(logFile, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// The writer side keeps copying agent output into the pipe; closing
		// the read side unblocks it so cmd.Wait can return. The rest of this
		// run's output is dropped.
		pr.CloseWithError(err)
		s.logger.Warn("agent output stream aborted", "error", err)
	}

	return <-done
}

// feed writes one line to the log verbatim and renders it.
func (s *Supervisor) feed(logFile io.Writer, line string) {
	fmt.Fprintln(logFile, line)
	s.renderer.RenderLine(line)
}

func marker(fields map[string]any) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(b)
}
