// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs a single job as an operating system process.
//
// Every job is handed to a shell interpreter, so pipes, redirects and other
// shell syntax in the job line work as they would at a prompt. This is an
// explicit capability of ShellExecutor rather than an accident of how the
// process is started.
//
// A job's exit code is recorded on its Result but a failing job is still a
// finished job: callers count completions, not successes.
package runbatch
