package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bft-labs/img2mp4/pkg/render"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("img2mp4 → " + m.Destination))
	b.WriteString("\n")

	// Progress
	b.WriteString(m.progressBar())
	b.WriteString(fmt.Sprintf(" %3d%%  %d/%d", m.Percent, m.Processed, m.Total))
	b.WriteString("\n")

	if m.Current != "" && !m.Done() {
		b.WriteString(InfoStyle.Render("   " + filepath.Base(m.Current)))
		b.WriteString("\n")
	}

	// Skips
	if n := len(m.Skipped); n > 0 {
		b.WriteString(WarnStyle.Render("⚠ " + m.summarizer.SkippedSoFar(n)))
		b.WriteString("\n")
		start := 0
		if n > maxRecentSkips {
			start = n - maxRecentSkips
		}
		for _, it := range m.Skipped[start:] {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("   %s (%s)", filepath.Base(it.Path), it.KindName())))
			b.WriteString("\n")
		}
	}

	// Result
	if m.Done() {
		b.WriteString("\n")
		b.WriteString(m.resultBox())
		b.WriteString("\n")
		return b.String()
	}

	// Help text
	b.WriteString("\n")
	if m.Cancelling {
		b.WriteString(WarnStyle.Render(m.summarizer.Cancelling()))
	} else {
		b.WriteString(InfoStyle.Render(m.State.String() + " | " + m.summarizer.CancelHint()))
	}
	b.WriteString("\n")

	return b.String()
}

// progressBar renders a fixed-width bar scaled to the window.
func (m Model) progressBar() string {
	width := m.width - 20
	if width > 50 {
		width = 50
	}
	if width < 10 {
		width = 10
	}
	filled := width * m.Percent / 100
	return BarFilledStyle.Render(strings.Repeat("█", filled)) +
		BarEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) resultBox() string {
	heading, summary := m.Heading, m.Summary
	if heading == "" {
		heading = m.State.String()
	}
	if summary == "" && m.Result != nil {
		summary = m.Result.Output
		if m.Result.Err != nil {
			summary = m.Result.Err.Error()
		}
	}

	style := StatusStyle
	switch m.State {
	case render.StateFailed:
		style = ErrorStyle
	case render.StateCancelled:
		style = WarnStyle
	}
	return BoxStyle.Render(style.Render(heading) + "\n" + summary)
}
