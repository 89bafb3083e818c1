// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workerpool runs a job list on a fixed number of workers.
//
// All workers pull from one unbuffered channel, so a worker that finishes
// early immediately takes the next job. Which worker runs which job is not
// defined.
package workerpool

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
	"github.com/matt-FFFFFF/jobpool/internal/jobs"
	"github.com/matt-FFFFFF/jobpool/internal/progress"
	"github.com/matt-FFFFFF/jobpool/internal/runbatch"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidWorkers is returned when a pool is created with fewer than one worker.
var ErrInvalidWorkers = errors.New("worker count must be at least 1")

// Completer is notified once per finished job.
type Completer interface {
	RecordCompletion() int
}

var _ Completer = (*progress.Tracker)(nil)

// Pool owns the workers for one run.
type Pool struct {
	workers  int
	executor runbatch.Executor
	tracker  Completer
}

// New creates a Pool with the given number of workers. The executor runs each
// job and tracker is told about every completion.
func New(workers int, executor runbatch.Executor, tracker Completer) (*Pool, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkers
	}

	return &Pool{
		workers:  workers,
		executor: executor,
		tracker:  tracker,
	}, nil
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes every unit in list and returns once all of them have finished
// and all workers have exited. Results are returned in list order.
//
// Job failures never stop the pool. If ctx is cancelled no further jobs are
// handed out; jobs already running are left to the executor, which kills them.
// Units that were never started have a nil Result.
func (p *Pool) Run(ctx context.Context, list jobs.List) []*runbatch.Result {
	results := make([]*runbatch.Result, len(list))
	queue := make(chan int)

	g := &errgroup.Group{}

	for id := range p.workers {
		g.Go(func() error {
			p.work(ctx, id, list, queue, results)
			return nil
		})
	}

	logger := ctxlog.Logger(ctx)

	for i := range list {
		if !send(ctx, queue, i) {
			logger.Warn("run cancelled, not starting remaining jobs", "remaining", len(list)-i)
			break
		}
	}

	close(queue)
	_ = g.Wait()

	return results
}

// work is the loop for a single worker. Each index is received by exactly one
// worker, so writes to results never overlap.
func (p *Pool) work(ctx context.Context, id int, list jobs.List, queue <-chan int, results []*runbatch.Result) {
	logger := ctxlog.Logger(ctx).With("worker", id)
	logger.Debug("worker started")

	for i := range queue {
		res := p.executor.Execute(ctx, list[i])
		results[i] = res

		if res.Failed() {
			logger.Debug("job failed",
				"job", res.Command,
				"exitCode", res.ExitCode,
				"error", res.Error,
				"stderr", string(res.StdErr))
		}

		p.tracker.RecordCompletion()
	}

	logger.Debug("worker exited")
}

// send hands index i to the next free worker. It returns false without
// sending once ctx is done.
func send(ctx context.Context, queue chan<- int, i int) bool {
	if ctx.Err() != nil {
		return false
	}

	select {
	case queue <- i:
		return true
	case <-ctx.Done():
		return false
	}
}
