// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"fmt"
	"io"
)

// Display is a Renderer with a lifecycle around one run. Start is called
// before the first job is dispatched and Stop after the pool has drained.
type Display interface {
	Renderer
	Start(total int) error
	Stop() error
}

var _ Display = (*LineDisplay)(nil)

// LineDisplay is the default console display: a "> Progress" line that is
// rewritten in place with a carriage return on every completion.
type LineDisplay struct {
	*LineRenderer
	w io.Writer
}

// NewLineDisplay returns a LineDisplay writing to w.
func NewLineDisplay(w io.Writer) *LineDisplay {
	return &LineDisplay{
		LineRenderer: NewLineRenderer(w),
		w:            w,
	}
}

// Start writes the progress line at zero.
func (d *LineDisplay) Start(_ int) error {
	_, err := fmt.Fprintf(d.w, "%s%d", ProgressLabel, 0)
	return err //nolint:wrapcheck
}

// Stop terminates the progress line.
func (d *LineDisplay) Stop() error {
	_, err := fmt.Fprintln(d.w)
	return err //nolint:wrapcheck
}
