// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger on a context.Context.
//
// The default logger is a pretty console handler writing to stderr, so that
// the job progress line on stdout is never interleaved with log records.
// The level is read from the JOBPOOL_LOG_LEVEL environment variable.
package ctxlog
