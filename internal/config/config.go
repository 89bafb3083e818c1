// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the settings for a single jobpool run.
package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
)

const (
	// DefaultThreads is the worker count used when none is given.
	DefaultThreads = 7

	// ThreadsKey is the startup parameter for the worker count.
	ThreadsKey = "threads"
	// JobFileKey is the startup parameter for the job source.
	JobFileKey = "job_file"

	paramSeparator = "="
)

var (
	// ErrInvalidThreads is returned when the worker count is not a positive integer.
	ErrInvalidThreads = errors.New("threads must be a positive integer")
	// ErrMalformedParam is returned for a startup parameter without a value.
	ErrMalformedParam = errors.New("malformed startup parameter")
)

// Config is the resolved configuration for a run. It is not changed once the
// run has started.
type Config struct {
	Threads int    // Number of concurrent workers
	JobFile string // Local path or go-getter URL of the job list
	Report  string // Optional path of a YAML run report
	TUI     bool   // Render progress with the interactive progress bar
}

// Default returns a Config with DefaultThreads and no job source.
func Default() Config {
	return Config{
		Threads: DefaultThreads,
	}
}

// Validate reports every problem with c. A missing job file is not checked
// here; loading the jobs reports it with a more specific message.
func (c Config) Validate() error {
	result := &multierror.Error{ErrorFormat: listFormat}

	if c.Threads < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: got %d", ErrInvalidThreads, c.Threads))
	}

	return result.ErrorOrNil()
}

// ApplyParams applies bare key=value startup parameters such as
// "threads=4" or "job_file=jobs.txt" to c. Order does not matter and a later
// token wins over an earlier one. Unknown keys are logged and ignored.
func (c *Config) ApplyParams(ctx context.Context, params []string) error {
	result := &multierror.Error{ErrorFormat: listFormat}

	for _, p := range params {
		key, value, ok := strings.Cut(p, paramSeparator)
		if !ok {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrMalformedParam, p))
			continue
		}

		switch strings.TrimLeft(key, "-") {
		case ThreadsKey:
			n, err := strconv.Atoi(value)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidThreads, value))
				continue
			}

			c.Threads = n
		case JobFileKey:
			c.JobFile = value
		default:
			ctxlog.Warn(ctx, "ignoring unknown startup parameter", "param", p)
		}
	}

	return result.ErrorOrNil()
}

// listFormat renders every error on one line, which suits a CLI exit message.
func listFormat(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, "; ")
}
