package render

import (
	"sync"
	"sync/atomic"

	"github.com/bft-labs/img2mp4/internal/app"
	"github.com/bft-labs/img2mp4/internal/domain"
)

// State is the state of the renderer's current or last job.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateIterating
	StateClosing
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

func convertState(s app.State) State {
	switch s {
	case app.StateOpening:
		return StateOpening
	case app.StateIterating:
		return StateIterating
	case app.StateClosing:
		return StateClosing
	case app.StateCompleted:
		return StateCompleted
	case app.StateCancelled:
		return StateCancelled
	case app.StateFailed:
		return StateFailed
	default:
		return StateIdle
	}
}

// StateChangeEvent is emitted when the job state changes.
type StateChangeEvent struct {
	JobID    string
	Previous State
	Current  State
	Reason   string
}

// StepEvent is emitted before an image is decoded.
type StepEvent struct {
	JobID string
	Index int // 1-based
	Total int
	Path  string
}

// ProgressEvent is emitted after an image has been processed or skipped.
// Percent is monotonic and reaches 100 only after the last image.
type ProgressEvent struct {
	JobID     string
	Percent   int
	Processed int
	Total     int
}

// SkipEvent is emitted when an image cannot be decoded.
type SkipEvent struct {
	JobID string
	Item  SkippedItem
}

// FinishedEvent is the terminal event of a job.
type FinishedEvent struct {
	Result Result

	// Dropped is the number of events discarded because the handler fell behind.
	Dropped int64
}

// EventHandler receives renderer events.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnStep(event StepEvent)
	OnProgress(event ProgressEvent)
	OnSkip(event SkipEvent)
	OnFinished(event FinishedEvent)
}

// BaseEventHandler implements EventHandler with no-op methods.
// Embed it to handle only the events you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnStep(StepEvent)               {}
func (BaseEventHandler) OnProgress(ProgressEvent)       {}
func (BaseEventHandler) OnSkip(SkipEvent)               {}
func (BaseEventHandler) OnFinished(FinishedEvent)       {}

// dispatcher delivers events to a handler on its own goroutine.
// emit never blocks; finish drains the queue and then delivers the
// terminal event.
type dispatcher struct {
	handler EventHandler
	ch      chan func(EventHandler)
	done    chan struct{}
	dropped atomic.Int64
	once    sync.Once
}

func newDispatcher(handler EventHandler, size int) *dispatcher {
	d := &dispatcher{
		handler: handler,
		ch:      make(chan func(EventHandler), size),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	defer close(d.done)
	for fn := range d.ch {
		d.call(fn)
	}
}

// call invokes fn, shielding the dispatcher from a panicking handler.
func (d *dispatcher) call(fn func(EventHandler)) {
	defer func() { _ = recover() }()
	fn(d.handler)
}

func (d *dispatcher) emit(fn func(EventHandler)) {
	select {
	case d.ch <- fn:
	default:
		d.dropped.Add(1)
	}
}

func (d *dispatcher) finish(result Result) {
	d.once.Do(func() {
		close(d.ch)
		<-d.done
		event := FinishedEvent{Result: result, Dropped: d.dropped.Load()}
		d.call(func(h EventHandler) { h.OnFinished(event) })
	})
}

// observer adapts the dispatcher to app.Observer for one job.
type observer struct {
	jobID string
	d     *dispatcher
}

func (o *observer) OnStateChange(previous, current app.State, reason string) {
	event := StateChangeEvent{
		JobID:    o.jobID,
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	}
	o.d.emit(func(h EventHandler) { h.OnStateChange(event) })
}

func (o *observer) OnStep(step app.Step) {
	event := StepEvent{JobID: o.jobID, Index: step.Index, Total: step.Total, Path: step.Path}
	o.d.emit(func(h EventHandler) { h.OnStep(event) })
}

func (o *observer) OnProgress(p app.Progress) {
	event := ProgressEvent{JobID: o.jobID, Percent: p.Percent, Processed: p.Processed, Total: p.Total}
	o.d.emit(func(h EventHandler) { h.OnProgress(event) })
}

func (o *observer) OnSkip(item domain.SkippedItem) {
	event := SkipEvent{JobID: o.jobID, Item: item}
	o.d.emit(func(h EventHandler) { h.OnSkip(event) })
}
