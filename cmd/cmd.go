// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for jobpool.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/jobpool/internal/config"
	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
	"github.com/matt-FFFFFF/jobpool/internal/jobs"
	"github.com/matt-FFFFFF/jobpool/internal/scheduler"
	"github.com/matt-FFFFFF/jobpool/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	threadsFlag = config.ThreadsKey
	jobFileFlag = config.JobFileKey
	reportFlag  = "report"
	tuiFlag     = "tui"

	// ThreadsEnvVar overrides the default worker count.
	ThreadsEnvVar = "JOBPOOL_THREADS"
	// JobFileEnvVar supplies the job source when none is given on the command line.
	JobFileEnvVar = "JOBPOOL_JOB_FILE"
)

// RootCmd is the root command for the CLI.
var RootCmd = NewRootCmd(os.Stdout, os.Stderr)

// NewRootCmd returns the jobpool command writing console output to stdout and
// errors to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "jobpool",
		Usage: "run every line of a job file as a shell command on a fixed number of workers",
		Description: `jobpool reads a list of shell commands, one per line, and runs them
concurrently on a fixed size pool of workers. Progress is shown as a running
count of finished jobs, followed by the total elapsed time. The exit status of
individual jobs does not affect the exit status of jobpool.

Parameters may be given as bare key=value tokens, as flags or through the
environment. Bare tokens win over flags, which win over the environment.`,
		UsageText: `jobpool job_file=jobs.txt threads=4
jobpool --job_file jobs.txt --report run.yaml`,
		ArgsUsage: "[threads=N] [job_file=PATH]",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    threadsFlag,
				Usage:   "Number of jobs to run concurrently",
				Value:   config.DefaultThreads,
				Sources: cli.EnvVars(ThreadsEnvVar),
			},
			&cli.StringFlag{
				Name:      jobFileFlag,
				Usage:     "Job file to run, a local path or a go-getter URL",
				TakesFile: true,
				Sources:   cli.EnvVars(JobFileEnvVar),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:      reportFlag,
				Usage:     "Write a YAML summary of every job to this file",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  tuiFlag,
				Usage: "Show an interactive progress bar when attached to a terminal",
				Value: false,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()
	cfg.Threads = int(cmd.Int(threadsFlag))
	cfg.JobFile = cmd.String(jobFileFlag)
	cfg.Report = cmd.String(reportFlag)
	cfg.TUI = cmd.Bool(tuiFlag)

	if err := cfg.ApplyParams(ctx, cmd.Args().Slice()); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts := []scheduler.Option{
		scheduler.WithOutput(cmd.Writer),
	}

	if cfg.TUI {
		if isTerminal(cmd.Writer) {
			opts = append(opts, scheduler.WithDisplay(tui.NewDisplay(cmd.Writer)))
		} else {
			ctxlog.Info(ctx, "output is not a terminal, using the plain progress line")
		}
	}

	if _, err := scheduler.New(cfg, opts...).Run(ctx); err != nil {
		return cli.Exit(exitMessage(err), 1)
	}

	return nil
}

// exitMessage returns the line shown to the user for a failed run.
func exitMessage(err error) string {
	var srcErr *jobs.SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Error()
	}

	return err.Error()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
