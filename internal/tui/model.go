// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	barPadding  = 2
	maxBarWidth = 60
	labelText   = "> Progress         : "
)

// CompletedMsg carries a new completion count into the model.
type CompletedMsg struct {
	Completed int
	Total     int
}

// FinishedMsg tells the model the pool has drained.
type FinishedMsg struct{}

// Styles holds the lipgloss styles used by the view.
type Styles struct {
	Label lipgloss.Style
	Count lipgloss.Style
	Done  lipgloss.Style
}

// NewStyles returns the default styles.
func NewStyles() Styles {
	return Styles{
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true),
		Count: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")),
		Done: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true),
	}
}

// Model is the bubbletea model for the progress bar.
type Model struct {
	bar       progress.Model
	styles    Styles
	completed int
	total     int
	finished  bool
}

// NewModel returns a Model for total jobs.
func NewModel(total int) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = maxBarWidth

	return Model{
		bar:    bar,
		styles: NewStyles(),
		total:  total,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-barPadding*2-len(labelText), maxBarWidth)
		return m, nil

	case CompletedMsg:
		m.completed = msg.Completed
		m.total = msg.Total

		return m, nil

	case FinishedMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

// Percent returns the completed fraction in the range [0, 1].
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 1
	}

	return float64(m.completed) / float64(m.total)
}

// View implements tea.Model.
func (m Model) View() string {
	sb := strings.Builder{}
	sb.WriteString(m.styles.Label.Render(labelText))
	sb.WriteString(m.bar.ViewAs(m.Percent()))
	sb.WriteString(" ")

	count := fmt.Sprintf("%d/%d", m.completed, m.total)
	if m.finished {
		sb.WriteString(m.styles.Done.Render(count))
	} else {
		sb.WriteString(m.styles.Count.Render(count))
	}

	sb.WriteString("\n")

	return sb.String()
}
