// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress counts completed jobs and renders the running total.
//
// Workers call Tracker.RecordCompletion concurrently. The increment and the
// render happen under one lock, so the rendered sequence is exactly
// 1, 2, ..., K with no gaps or repeats, in the order jobs actually finish.
package progress
