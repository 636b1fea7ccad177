package app

import (
	"fmt"
	"sync"

	"github.com/bft-labs/img2mp4/internal/domain"
	"github.com/bft-labs/img2mp4/internal/ports"
)

// State represents the state of the job currently owned by a Sequencer.
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
	switch s {
	case StateIdle:
		return "Idle"
	case StateOpening:
		return "Opening"
	case StateIterating:
		return "Iterating"
	case StateClosing:
		return "Closing"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal returns true for the states that end a job.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Lifecycle manages the job state machine.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	logger       ports.Logger
	eventEmitter EventEmitter
}

// EventEmitter is called when the job state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// NewLifecycle creates a new lifecycle in StateIdle.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateIdle,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// allowed reports whether from -> to is a valid transition.
func allowed(from, to State) bool {
	switch from {
	case StateIdle, StateCompleted, StateCancelled, StateFailed:
		// A new job starts from any resting state; a job rejected by its
		// preconditions fails without opening anything.
		return to == StateOpening || to == StateFailed
	case StateOpening:
		return to == StateIterating || to == StateCancelled || to == StateFailed
	case StateIterating:
		return to == StateClosing
	case StateClosing:
		return to.Terminal()
	}
	return false
}

// TransitionTo attempts to transition to a new state.
// Returns an error wrapping domain.ErrInvalidTransition if the transition is not valid.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	if !allowed(oldState, newState) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, oldState, newState)
	}

	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Debug("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// Active returns true while a job is between Opening and its terminal state.
func (l *Lifecycle) Active() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateOpening || l.state == StateIterating || l.state == StateClosing
}
