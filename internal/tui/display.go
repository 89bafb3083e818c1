// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	jpprogress "github.com/matt-FFFFFF/jobpool/internal/progress"
)

// ErrNotStarted is returned by Stop when Start was never called.
var ErrNotStarted = errors.New("tui display not started")

var _ jpprogress.Display = (*Display)(nil)

// Display drives a bubbletea program from Tracker callbacks.
type Display struct {
	out     io.Writer
	program *tea.Program
	done    chan error
}

// NewDisplay returns a Display that draws to out. Keyboard input is not read;
// interrupts are left to the caller's signal handling.
func NewDisplay(out io.Writer) *Display {
	return &Display{
		out: out,
	}
}

// Start launches the bubbletea program in the background.
func (d *Display) Start(total int) error {
	d.program = tea.NewProgram(NewModel(total),
		tea.WithOutput(d.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	d.done = make(chan error, 1)

	go func() {
		_, err := d.program.Run()
		d.done <- err
	}()

	return nil
}

// Render implements progress.Renderer. It blocks until the program has
// accepted the update, which keeps the bar in step with the counter.
func (d *Display) Render(completed, total int) {
	if d.program == nil {
		return
	}

	d.program.Send(CompletedMsg{Completed: completed, Total: total})
}

// Stop shows the final state and waits for the program to exit.
func (d *Display) Stop() error {
	if d.program == nil {
		return ErrNotStarted
	}

	d.program.Send(FinishedMsg{})

	return <-d.done
}
