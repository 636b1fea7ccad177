// Package tui shows render progress in the terminal.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/img2mp4/internal/i18n"
	"github.com/bft-labs/img2mp4/pkg/render"
)

// maxRecentSkips is the number of skipped files listed while rendering.
const maxRecentSkips = 5

// Model is the progress view state for one job.
type Model struct {
	Destination string
	State       render.State
	Total       int
	Processed   int
	Percent     int
	Current     string
	Skipped     []render.SkippedItem
	Dropped     int64
	Cancelling  bool

	// Set when the job is over.
	Result  *render.Result
	Heading string
	Summary string

	width      int
	cancel     func()
	summarizer *i18n.Summarizer
}

// NewModel creates the view for a job writing to destination.
// cancel is called when the user asks to stop. A nil summarizer means English.
func NewModel(destination string, total int, cancel func(), summarizer *i18n.Summarizer) Model {
	if summarizer == nil {
		summarizer = i18n.New(i18n.Supported[0])
	}
	return Model{
		Destination: destination,
		State:       render.StateIdle,
		Total:       total,
		width:       80,
		cancel:      cancel,
		summarizer:  summarizer,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

// Done returns true once the terminal result has arrived.
func (m Model) Done() bool {
	return m.Result != nil
}
