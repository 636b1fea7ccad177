package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/img2mp4/pkg/render"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Handler forwards renderer events to a tea program.
type Handler struct {
	sender Sender
}

// NewHandler creates a render.EventHandler that feeds sender.
func NewHandler(sender Sender) *Handler {
	return &Handler{sender: sender}
}

func (h *Handler) OnStateChange(e render.StateChangeEvent) { h.sender.Send(StateMsg(e)) }
func (h *Handler) OnStep(e render.StepEvent)               { h.sender.Send(StepMsg(e)) }
func (h *Handler) OnProgress(e render.ProgressEvent)       { h.sender.Send(ProgressMsg(e)) }
func (h *Handler) OnSkip(e render.SkipEvent)               { h.sender.Send(SkipMsg(e)) }
func (h *Handler) OnFinished(e render.FinishedEvent)       { h.sender.Send(FinishedMsg(e)) }

var _ render.EventHandler = (*Handler)(nil)
