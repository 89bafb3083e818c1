// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "time"

// ResultStatus summarises how a job ended.
type ResultStatus int

const (
	// ResultStatusUnknown is the zero value, set before the process has finished.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the process exited with code 0.
	ResultStatusSuccess
	// ResultStatusError means the process exited non-zero, could not start, or was killed.
	ResultStatusError
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of running one job.
type Result struct {
	Command  string        // The command line handed to the shell
	ExitCode int           // Process exit code, -1 if it did not start or was killed
	Error    error         // Start, kill or read error, nil for a normal exit
	Status   ResultStatus  // Success or error
	StdOut   []byte        // Captured stdout, truncated at the executor's limit
	StdErr   []byte        // Captured stderr, truncated at the executor's limit
	Duration time.Duration // Wall-clock time from start to exit
}

// Failed reports whether the job did not exit cleanly with code 0.
func (r *Result) Failed() bool {
	return r.Status != ResultStatusSuccess
}
