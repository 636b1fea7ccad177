package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/img2mp4/pkg/render"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case StateMsg:
		m.State = msg.Current
	case StepMsg:
		m.Current = msg.Path
		m.Total = msg.Total
	case ProgressMsg:
		// Events may be dropped, never reordered.
		if msg.Percent >= m.Percent {
			m.Percent = msg.Percent
			m.Processed = msg.Processed
		}
		m.Total = msg.Total
	case SkipMsg:
		m.Skipped = append(m.Skipped, msg.Item)
	case FinishedMsg:
		return m.handleFinished(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if m.Done() {
			return m, tea.Quit
		}
		if !m.Cancelling && m.cancel != nil {
			m.cancel()
		}
		m.Cancelling = true
	}
	return m, nil
}

// handleFinished records the terminal result and exits the program.
func (m Model) handleFinished(msg FinishedMsg) (tea.Model, tea.Cmd) {
	result := msg.Result
	m.Result = &result
	m.Dropped = msg.Dropped
	m.Skipped = result.Skipped
	m.Processed = result.Processed
	m.Total = result.Total
	m.Current = ""
	switch {
	case result.Completed():
		m.State = render.StateCompleted
		m.Percent = 100
	case result.Cancelled():
		m.State = render.StateCancelled
	default:
		m.State = render.StateFailed
	}
	m.Heading = m.summarizer.Title(result)
	m.Summary = m.summarizer.Summary(result)
	return m, tea.Quit
}
