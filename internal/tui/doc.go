// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui renders run progress as an inline bubbletea progress bar.
//
// Display implements progress.Display, so it plugs into the same Tracker as
// the plain console line and receives the same ordered completion counts.
package tui
