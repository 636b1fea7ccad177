package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/bft-labs/img2mp4/internal/i18n"
	"github.com/bft-labs/img2mp4/pkg/render"
)

type sendRecorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *sendRecorder) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func TestHandler_ForwardsEvents(t *testing.T) {
	rec := &sendRecorder{}
	h := NewHandler(rec)

	h.OnStateChange(render.StateChangeEvent{Current: render.StateOpening})
	h.OnStep(render.StepEvent{Index: 1, Total: 2, Path: "a.png"})
	h.OnProgress(render.ProgressEvent{Percent: 50, Processed: 1, Total: 2})
	h.OnSkip(render.SkipEvent{Item: render.SkippedItem{Path: "b.png"}})
	h.OnFinished(render.FinishedEvent{})

	if len(rec.msgs) != 5 {
		t.Fatalf("got %d messages, want 5", len(rec.msgs))
	}
	if _, ok := rec.msgs[1].(StepMsg); !ok {
		t.Errorf("msgs[1] = %T, want StepMsg", rec.msgs[1])
	}
	if _, ok := rec.msgs[4].(FinishedMsg); !ok {
		t.Errorf("msgs[4] = %T, want FinishedMsg", rec.msgs[4])
	}
}

func TestModel_Progress(t *testing.T) {
	m := NewModel("out.mp4", 3, nil, nil)

	m, _ = update(t, m, StateMsg{Current: render.StateIterating})
	m, _ = update(t, m, StepMsg{Index: 1, Total: 3, Path: "/in/a.png"})
	m, _ = update(t, m, ProgressMsg{Percent: 33, Processed: 1, Total: 3})
	m, _ = update(t, m, SkipMsg{Item: render.SkippedItem{Path: "/in/b.png"}})
	m, _ = update(t, m, ProgressMsg{Percent: 67, Processed: 2, Total: 3})

	if m.State != render.StateIterating || m.Percent != 67 || m.Processed != 2 || len(m.Skipped) != 1 {
		t.Errorf("model = %+v", m)
	}
	view := m.View()
	for _, want := range []string{"out.mp4", "67%", "a.png", "skipped: 1", "b.png"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestModel_CancelKey(t *testing.T) {
	cancels := 0
	m := NewModel("out.mp4", 3, func() { cancels++ }, nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Error("program should keep running until the result arrives")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	if cancels != 1 || !m.Cancelling {
		t.Errorf("cancels = %d, Cancelling = %v", cancels, m.Cancelling)
	}
	if !strings.Contains(m.View(), "Cancelling") {
		t.Error("View() should show the pending cancellation")
	}
}

func TestModel_GermanView(t *testing.T) {
	m := NewModel("out.mp4", 3, func() {}, i18n.New(language.German))

	m, _ = update(t, m, SkipMsg{Item: render.SkippedItem{Path: "/in/b.png"}})
	view := m.View()
	for _, want := range []string{"übersprungen: 1", "Strg+C"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !strings.Contains(m.View(), "Abbruch") {
		t.Errorf("View() should show the German cancellation notice:\n%s", m.View())
	}
}

func TestModel_Finished(t *testing.T) {
	m := NewModel("out.mp4", 2, nil, i18n.New(language.English))

	result := render.Result{
		Outcome:   render.OutcomeCompleted,
		Output:    "out.mp4",
		Processed: 2,
		Total:     2,
		Frames:    1,
		Skipped:   []render.SkippedItem{{Path: "bad.png"}},
	}
	m, cmd := update(t, m, FinishedMsg{Result: result})

	if cmd == nil {
		t.Fatal("FinishedMsg should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("FinishedMsg command is not tea.Quit")
	}
	if !m.Done() || m.Percent != 100 || m.State != render.StateCompleted {
		t.Errorf("model = %+v", m)
	}
	if m.Heading != "Done" || !strings.Contains(m.Summary, "1 image skipped") {
		t.Errorf("heading = %q, summary = %q", m.Heading, m.Summary)
	}
	if !strings.Contains(m.View(), "Video saved: out.mp4") {
		t.Errorf("View() = %s", m.View())
	}
}

func TestModel_FailedWithoutSummarizer(t *testing.T) {
	m := NewModel("out.mp4", 1, nil, nil)

	m, _ = update(t, m, FinishedMsg{Result: render.Result{Outcome: render.OutcomeFailed, Err: errors.New("disk full")}})

	if m.State != render.StateFailed {
		t.Errorf("State = %v, want Failed", m.State)
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Errorf("View() = %s", m.View())
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q after the result should quit")
	}
}
