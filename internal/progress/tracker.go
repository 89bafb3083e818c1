// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"fmt"
	"io"
	"sync"
)

// Renderer displays the completion count. Render is always called with the
// Tracker's lock held, so implementations see counts strictly in order and
// never concurrently.
type Renderer interface {
	Render(completed, total int)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(completed, total int)

// Render implements Renderer.
func (f RendererFunc) Render(completed, total int) {
	f(completed, total)
}

// Tracker counts finished jobs. It is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	count    int
	total    int
	renderer Renderer
}

// NewTracker returns a Tracker at zero for total jobs. A nil renderer is allowed.
func NewTracker(total int, renderer Renderer) *Tracker {
	return &Tracker{
		total:    total,
		renderer: renderer,
	}
}

// RecordCompletion increments the counter and renders the new value as one
// step, then returns it. No two callers observe the same value.
func (t *Tracker) RecordCompletion() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++

	if t.renderer != nil {
		t.renderer.Render(t.count, t.total)
	}

	return t.count
}

// Count returns the number of completions recorded so far.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}

// Total returns the number of jobs the tracker was created for.
func (t *Tracker) Total() int {
	return t.total
}

// ProgressLabel is the banner-style prefix used for the progress line.
const ProgressLabel = "> Progress         : "

// LineRenderer rewrites a single console line with the current count.
type LineRenderer struct {
	w io.Writer
}

// NewLineRenderer returns a LineRenderer writing to w.
func NewLineRenderer(w io.Writer) *LineRenderer {
	return &LineRenderer{w: w}
}

// Render implements Renderer.
func (r *LineRenderer) Render(completed, _ int) {
	fmt.Fprintf(r.w, "\r%s%d", ProgressLabel, completed) //nolint:errcheck
}
