// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
	"github.com/matt-FFFFFF/jobpool/internal/jobs"
)

const defaultMaxOutput = 8 * 1024 * 1024 // 8MB per stream

var (
	// ErrBufferOverflow is returned when a stream exceeds the executor's output limit.
	ErrBufferOverflow = errors.New("output exceeds max size")
	// ErrCouldNotStartProcess is returned when the shell could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when a process pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrFailedToCreatePipe is returned when an operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrCancelled is returned when the run was cancelled and the process killed.
	ErrCancelled = errors.New("run cancelled, process killed")
)

// Executor runs a single job to completion.
type Executor interface {
	Execute(ctx context.Context, unit jobs.Unit) *Result
}

var _ Executor = (*ShellExecutor)(nil)

// ShellExecutor runs each job line through a shell interpreter in its own
// process. Stdout and stderr are drained while the process runs and kept on
// the Result, truncated at MaxOutput bytes each.
type ShellExecutor struct {
	Shell     string            // Interpreter path, see DefaultShell
	Cwd       string            // Working directory, empty for the current one
	Env       map[string]string // Added to the inherited environment
	MaxOutput int64             // Per-stream capture limit, 0 means 8MB
}

// NewShellExecutor returns a ShellExecutor using DefaultShell.
func NewShellExecutor(ctx context.Context) *ShellExecutor {
	return &ShellExecutor{
		Shell: DefaultShell(ctx),
	}
}

// Execute implements Executor. It blocks until the process exits and never
// retries. A non-zero exit is reported on the Result, not as a Go error.
func (e *ShellExecutor) Execute(ctx context.Context, unit jobs.Unit) *Result {
	line := unit.CommandLine()
	logger := ctxlog.Logger(ctx).With("job", line, "line", unit.Line())

	res := &Result{
		Command: line,
	}

	if err := ctx.Err(); err != nil {
		return res.fail(errors.Join(ErrCancelled, err))
	}

	shell := e.Shell
	if shell == "" {
		shell = DefaultShell(ctx)
	}

	limit := e.MaxOutput
	if limit <= 0 {
		limit = defaultMaxOutput
	}

	env := os.Environ()
	for k, v := range e.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return res.fail(errors.Join(ErrFailedToCreatePipe, err))
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeAll(rOut, wOut)
		return res.fail(errors.Join(ErrFailedToCreatePipe, err))
	}

	args := slices.Concat([]string{filepath.Base(shell)}, shellArgs(line))

	logger.Debug("starting process", "shell", shell, "cwd", e.Cwd)

	start := time.Now()

	ps, err := os.StartProcess(shell, args, &os.ProcAttr{
		Dir:   e.Cwd,
		Env:   env,
		Files: []*os.File{os.Stdin, wOut, wErr},
	})

	// The child holds its own copies of the write ends. Closing ours means
	// the readers see EOF as soon as the child exits.
	closeAll(wOut, wErr)

	if err != nil {
		closeAll(rOut, rErr)
		return res.fail(errors.Join(ErrCouldNotStartProcess, err))
	}

	logger.Debug("process started", "pid", ps.Pid)

	var (
		wg             sync.WaitGroup
		outErr, errErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		res.StdOut, outErr = drainUpToMax(rOut, limit)
	}()

	go func() {
		defer wg.Done()
		res.StdErr, errErr = drainUpToMax(rErr, limit)
	}()

	done := make(chan struct{})
	killed := make(chan bool, 1)

	go func() {
		select {
		case <-ctx.Done():
			killPs(ctx, ps)
			killed <- true
		case <-done:
			killed <- false
		}
	}()

	state, waitErr := ps.Wait()
	close(done)

	wasKilled := <-killed
	if wasKilled {
		// Orphaned grandchildren of the shell may still hold the write ends.
		closeAll(rOut, rErr)
	}

	wg.Wait()
	closeAll(rOut, rErr)

	res.Duration = time.Since(start)
	res.ExitCode = state.ExitCode()

	if wasKilled {
		res.Error = errors.Join(waitErr, ErrCancelled, ctx.Err())
		res.ExitCode = -1
	} else {
		res.Error = errors.Join(waitErr, outErr, errErr)
	}

	res.Status = ResultStatusSuccess
	if res.Error != nil || res.ExitCode != 0 {
		res.Status = ResultStatusError
	}

	logger.Debug("process finished",
		"exitCode", res.ExitCode,
		"status", res.Status.String(),
		"duration", res.Duration,
		"stdoutBytes", len(res.StdOut),
		"stderrBytes", len(res.StdErr))

	return res
}

func (r *Result) fail(err error) *Result {
	r.Error = err
	r.ExitCode = -1
	r.Status = ResultStatusError

	return r
}

// drainUpToMax reads r to EOF, keeping at most maxBytes. Anything beyond the
// limit is discarded so the writer is never blocked on a full pipe.
func drainUpToMax(r io.Reader, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxBytes)
	if err != nil && !errors.Is(err, io.EOF) {
		return buf.Bytes(), errors.Join(ErrFailedToReadBuffer, err)
	}

	if n < maxBytes {
		return buf.Bytes(), nil
	}

	extra, err := io.Copy(io.Discard, r)
	if err != nil {
		return buf.Bytes(), errors.Join(ErrFailedToReadBuffer, err)
	}

	if extra > 0 {
		return buf.Bytes(), fmt.Errorf("%w of %d bytes", ErrBufferOverflow, maxBytes)
	}

	return buf.Bytes(), nil
}

func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
