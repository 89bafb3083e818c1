// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scheduler drives a single run: it loads the job list, prints the
// banner, runs the worker pool until it drains and reports the elapsed time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/matt-FFFFFF/jobpool/internal/config"
	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
	"github.com/matt-FFFFFF/jobpool/internal/jobs"
	"github.com/matt-FFFFFF/jobpool/internal/progress"
	"github.com/matt-FFFFFF/jobpool/internal/report"
	"github.com/matt-FFFFFF/jobpool/internal/runbatch"
	"github.com/matt-FFFFFF/jobpool/internal/workerpool"
)

var (
	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidTransition is returned when the run is driven out of order.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrCancelled is returned when the run was cancelled before all jobs finished.
	ErrCancelled = errors.New("run cancelled before all jobs finished")
)

// Report summarises a finished run.
type Report struct {
	JobFile   string
	Threads   int
	Jobs      jobs.List
	Results   []*runbatch.Result // In Jobs order; nil for jobs never started
	Completed int
	Elapsed   time.Duration
}

// Failed counts the jobs that ran and did not succeed.
func (r *Report) Failed() int {
	n := 0

	for _, res := range r.Results {
		if res != nil && res.Failed() {
			n++
		}
	}

	return n
}

// Scheduler runs one configuration once.
type Scheduler struct {
	cfg      config.Config
	out      io.Writer
	executor runbatch.Executor
	display  progress.Display
	getwd    func() (string, error)

	mu    sync.Mutex
	state State
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithOutput sets where the banner, progress and timing lines are written.
func WithOutput(w io.Writer) Option {
	return func(s *Scheduler) {
		s.out = w
	}
}

// WithExecutor replaces the default ShellExecutor.
func WithExecutor(e runbatch.Executor) Option {
	return func(s *Scheduler) {
		s.executor = e
	}
}

// WithDisplay replaces the default console progress line.
func WithDisplay(d progress.Display) Option {
	return func(s *Scheduler) {
		s.display = d
	}
}

// New returns a Scheduler in the configuring state.
func New(cfg config.Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:   cfg,
		out:   os.Stdout,
		getwd: os.Getwd,
		state: StateConfiguring,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.display == nil {
		s.display = progress.NewLineDisplay(s.out)
	}

	return s
}

// State returns the current phase of the run.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Run performs the whole run and blocks until every dispatched job has
// finished. Configuration and job loading errors are returned before any job
// starts; the *jobs.SourceError message is suitable for the user. Failing
// jobs are not errors. A cancelled ctx stops dispatch and returns ErrCancelled
// together with the partial report.
func (s *Scheduler) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.Logger(ctx).With("jobFile", s.cfg.JobFile, "threads", s.cfg.Threads)

	if err := s.cfg.Validate(); err != nil {
		s.fail()
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := s.transition(StateParsing); err != nil {
		return nil, err
	}

	list, err := jobs.Load(ctx, s.cfg.JobFile)
	if err != nil {
		s.fail()
		logger.Debug("no jobs loaded", "error", err)

		return nil, err
	}

	if err := s.transition(StateDispatching); err != nil {
		return nil, err
	}

	cwd, err := s.getwd()
	if err != nil {
		logger.Warn("could not determine working directory", "error", err)
	}

	s.printf("> File             : %s\n", s.cfg.JobFile)
	s.printf("> Threads          : %d\n", s.cfg.Threads)
	s.printf("> Jobs             : %d\n", len(list))
	s.printf("> Working directory: %s\n", cwd)
	s.printf("> Creating threads : ")

	executor := s.executor
	if executor == nil {
		executor = runbatch.NewShellExecutor(ctx)
	}

	tracker := progress.NewTracker(len(list), s.display)

	pool, err := workerpool.New(s.cfg.Threads, executor, tracker)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.printf("Ok\n")

	if err := s.display.Start(len(list)); err != nil {
		logger.Warn("could not start progress display", "error", err)
	}

	if err := s.transition(StateDraining); err != nil {
		return nil, err
	}

	start := time.Now()
	results := pool.Run(ctx, list)
	elapsed := time.Since(start)

	if err := s.display.Stop(); err != nil {
		logger.Warn("progress display did not stop cleanly", "error", err)
	}

	if err := s.transition(StateReporting); err != nil {
		return nil, err
	}

	s.printf("> Finished in      : %.3f seconds\n", elapsed.Seconds())

	rep := &Report{
		JobFile:   s.cfg.JobFile,
		Threads:   s.cfg.Threads,
		Jobs:      list,
		Results:   results,
		Completed: tracker.Count(),
		Elapsed:   elapsed,
	}

	logger.Info("run finished",
		"jobs", len(list),
		"completed", rep.Completed,
		"failed", rep.Failed(),
		"elapsed", elapsed)

	if s.cfg.Report != "" {
		doc := report.Build(s.cfg.JobFile, s.cfg.Threads, list, results, elapsed)
		if err := report.WriteFile(s.cfg.Report, doc); err != nil {
			logger.Error("could not write run report", "path", s.cfg.Report, "error", err)
		}
	}

	if err := s.transition(StateDone); err != nil {
		return nil, err
	}

	if rep.Completed < len(list) {
		return rep, errors.Join(ErrCancelled, ctx.Err())
	}

	return rep, nil
}

// fail moves a run that has not started dispatching into StateFailed.
func (s *Scheduler) fail() {
	_ = s.transition(StateFailed)
}

func (s *Scheduler) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...) //nolint:errcheck
}
