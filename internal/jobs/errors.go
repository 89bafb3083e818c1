// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobs

import (
	"errors"
	"fmt"
)

var (
	// ErrNoJobFile means no job source was configured.
	ErrNoJobFile = errors.New("no job file specified")
	// ErrSourceNotFound means the job source does not exist or could not be fetched.
	ErrSourceNotFound = errors.New("job file not found")
	// ErrEmptyJobFile means the job source exists but contains no commands.
	ErrEmptyJobFile = errors.New("job file is empty")
)

// SourceError reports why no jobs could be loaded from Path.
// Err is one of ErrNoJobFile, ErrSourceNotFound or ErrEmptyJobFile,
// optionally joined with the underlying cause.
type SourceError struct {
	Path string
	Err  error
}

// Error returns the user facing message for the failure.
func (e *SourceError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNoJobFile):
		return `No job file specified, use command line argument job_file="FILE_PATH"`
	case errors.Is(e.Err, ErrSourceNotFound):
		return "Unable to open: " + e.Path
	case errors.Is(e.Err, ErrEmptyJobFile):
		return fmt.Sprintf("Job file %s is empty", e.Path)
	default:
		return fmt.Sprintf("Unable to load jobs from %s: %v", e.Path, e.Err)
	}
}

// Unwrap allows errors.Is against the sentinel errors.
func (e *SourceError) Unwrap() error {
	return e.Err
}
