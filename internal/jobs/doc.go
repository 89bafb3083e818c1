// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package jobs turns a job file into a List of Units.
//
// A job file is plain text with one shell command per line. Tokens are
// separated by spaces, blank lines are ignored and there is no comment or
// escaping syntax beyond what the shell itself interprets when the unit runs.
package jobs
