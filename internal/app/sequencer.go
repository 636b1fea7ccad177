package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/img2mp4/internal/domain"
	"github.com/bft-labs/img2mp4/internal/ports"
)

// SequencerConfig contains configuration for the render loop.
type SequencerConfig struct {
	// Verify probes the finished video and attaches its VideoInfo to the result.
	Verify bool
}

// Step is emitted before an item is decoded.
type Step struct {
	Index int // 1-based
	Total int
	Path  string
}

// Progress is emitted after an item has been processed or skipped.
type Progress struct {
	Percent   int
	Processed int
	Total     int
}

// Observer receives job events on the worker goroutine.
// Implementations must return quickly; they run inside the render loop.
type Observer interface {
	EventEmitter
	OnStep(step Step)
	OnProgress(progress Progress)
	OnSkip(item domain.SkippedItem)
}

type nopObserver struct{}

func (nopObserver) OnStateChange(previous, current State, reason string) {}
func (nopObserver) OnStep(Step)                                          {}
func (nopObserver) OnProgress(Progress)                                  {}
func (nopObserver) OnSkip(domain.SkippedItem)                            {}

// Sequencer turns a RenderJob into a video: it opens the encoder, composes
// every source in order, skips undecodable ones, and always closes the
// encoder before producing the terminal result.
//
// A Sequencer runs one job at a time. Render calls made while a job is
// active fail with domain.ErrAlreadyRunning.
type Sequencer struct {
	config    SequencerConfig
	composer  ports.FrameComposer
	encoders  ports.EncoderFactory
	probe     ports.VideoProbe
	logger    ports.Logger
	observer  Observer
	lifecycle *Lifecycle
}

// NewSequencer creates a new sequencer with the given dependencies.
// probe may be nil when verification is disabled; observer may be nil.
func NewSequencer(
	config SequencerConfig,
	composer ports.FrameComposer,
	encoders ports.EncoderFactory,
	probe ports.VideoProbe,
	logger ports.Logger,
	observer Observer,
) *Sequencer {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Sequencer{
		config:    config,
		composer:  composer,
		encoders:  encoders,
		probe:     probe,
		logger:    logger,
		observer:  observer,
		lifecycle: NewLifecycle(logger, observer),
	}
}

// State returns the state of the current or last job.
func (s *Sequencer) State() State {
	return s.lifecycle.State()
}

// Render executes job and returns its terminal result. It never panics and
// never returns without having closed the encoder it opened.
//
// Cancellation of ctx is observed between items only.
func (s *Sequencer) Render(ctx context.Context, job domain.RenderJob) (result domain.RenderResult) {
	start := time.Now()
	job = job.Snapshot()
	result = domain.RenderResult{JobID: job.ID, Total: len(job.Sources)}

	if s.lifecycle.Active() {
		s.logger.Warn("job rejected", ports.String("job_id", job.ID), ports.Err(domain.ErrAlreadyRunning))
		result.Outcome = domain.OutcomeFailed
		result.Err = domain.ErrAlreadyRunning
		result.Duration = time.Since(start)
		return result
	}

	var enc ports.FrameEncoder
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected failure: %v", r)
			s.logger.Error("render panic", ports.String("job_id", job.ID), ports.Err(err))
			if enc != nil {
				s.closeQuietly(enc)
				result.Frames = enc.Frames()
			}
			result.Outcome = domain.OutcomeFailed
			result.Err = err
			result.Output = ""
			s.finish(StateFailed, err.Error())
		}
		result.Duration = time.Since(start)
	}()

	if err := job.Validate(); err != nil {
		s.logger.Error("job rejected", ports.String("job_id", job.ID), ports.Err(err))
		s.finish(StateFailed, err.Error())
		result.Outcome = domain.OutcomeFailed
		result.Err = err
		return result
	}

	if !s.transition(StateOpening, job.Destination) {
		result.Outcome = domain.OutcomeFailed
		result.Err = domain.ErrAlreadyRunning
		return result
	}

	spec := ports.EncoderSpec{
		Destination: job.Destination,
		Size:        job.Size,
		FrameRate:   job.FrameRate(),
		FPS:         job.FPS(),
	}
	var err error
	enc, err = s.encoders.Open(ctx, spec)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, domain.ErrWriterOpenFailed) {
			s.finish(StateCancelled, "cancelled before start")
			result.Outcome = domain.OutcomeCancelled
			return result
		}
		if !errors.Is(err, domain.ErrWriterOpenFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrWriterOpenFailed, err)
		}
		s.logger.Error("failed to open encoder",
			ports.String("job_id", job.ID),
			ports.String("destination", job.Destination),
			ports.Err(err),
		)
		s.finish(StateFailed, err.Error())
		result.Outcome = domain.OutcomeFailed
		result.Err = err
		return result
	}

	s.logger.Info("render started",
		ports.String("job_id", job.ID),
		ports.Int("images", len(job.Sources)),
		ports.String("size", job.Size.String()),
		ports.Float64("fps", spec.FPS),
		ports.String("destination", job.Destination),
	)
	s.transition(StateIterating, "encoder open")

	outcome, runErr := s.iterate(ctx, job, enc, &result)

	s.transition(StateClosing, outcome.String())
	closeErr := enc.Close()
	result.Frames = enc.Frames()
	if closeErr != nil {
		if outcome == domain.OutcomeCompleted {
			outcome = domain.OutcomeFailed
			runErr = fmt.Errorf("finalize %s: %w", job.Destination, closeErr)
		} else {
			s.logger.Warn("encoder close failed", ports.String("job_id", job.ID), ports.Err(closeErr))
		}
	}

	result.Outcome = outcome
	result.Err = runErr

	switch outcome {
	case domain.OutcomeCompleted:
		result.Output = job.Destination
		if s.config.Verify && s.probe != nil {
			s.verify(ctx, &result)
		}
		s.finish(StateCompleted, "all items processed")
		s.logger.Info("render completed",
			ports.String("job_id", job.ID),
			ports.String("output", result.Output),
			ports.Int("frames", result.Frames),
			ports.Int("skipped", len(result.Skipped)),
		)
	case domain.OutcomeCancelled:
		s.finish(StateCancelled, "cancellation requested")
		s.logger.Info("render cancelled",
			ports.String("job_id", job.ID),
			ports.Int("processed", result.Processed),
			ports.Int("total", result.Total),
		)
	default:
		s.finish(StateFailed, runErr.Error())
		s.logger.Error("render failed", ports.String("job_id", job.ID), ports.Err(runErr))
	}
	return result
}

// iterate composes and writes every source in order. A panic inside the loop
// is recovered into a failed outcome so the caller can still close the encoder.
func (s *Sequencer) iterate(ctx context.Context, job domain.RenderJob, enc ports.FrameEncoder, result *domain.RenderResult) (outcome domain.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = domain.OutcomeFailed
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	total := len(job.Sources)
	for i, path := range job.Sources {
		// Only safe stopping point: between whole frames.
		if ctx.Err() != nil {
			return domain.OutcomeCancelled, nil
		}

		s.observer.OnStep(Step{Index: i + 1, Total: total, Path: path})

		frame, cerr := s.composer.Compose(path, job.Size)
		if cerr != nil {
			var de *domain.DecodeError
			if !errors.As(cerr, &de) {
				de = domain.NewDecodeError(path, domain.DecodeCorrupt, cerr)
			}
			item := domain.SkippedFrom(de)
			result.Skipped = append(result.Skipped, item)
			s.logger.Warn("skipping image",
				ports.String("path", path),
				ports.String("kind", item.KindName()),
				ports.String("reason", item.Reason),
			)
			s.observer.OnSkip(item)
		} else if werr := enc.WriteFrame(frame); werr != nil {
			return domain.OutcomeFailed, fmt.Errorf("write frame %d (%s): %w", i+1, path, werr)
		}

		result.Processed = i + 1
		s.observer.OnProgress(Progress{
			Percent:   Percent(i+1, total),
			Processed: i + 1,
			Total:     total,
		})
	}
	return domain.OutcomeCompleted, nil
}

// verify probes the finished file. Probe problems are logged, never fatal.
func (s *Sequencer) verify(ctx context.Context, result *domain.RenderResult) {
	info, err := s.probe.Probe(ctx, result.Output)
	if err != nil {
		s.logger.Warn("verification failed", ports.String("output", result.Output), ports.Err(err))
		return
	}
	result.Video = &info
	if info.Frames != result.Frames {
		s.logger.Warn("frame count mismatch",
			ports.String("output", result.Output),
			ports.Int("written", result.Frames),
			ports.Int("probed", info.Frames),
		)
	}
}

// finish moves the lifecycle to a terminal state, passing through Closing
// when the job was still iterating.
func (s *Sequencer) finish(state State, reason string) {
	if s.lifecycle.State() == StateIterating {
		s.transition(StateClosing, reason)
	}
	s.transition(state, reason)
}

// transition moves the lifecycle to state. A rejected transition is logged
// at debug level and reported as false.
func (s *Sequencer) transition(state State, reason string) bool {
	if err := s.lifecycle.TransitionTo(state, reason); err != nil {
		s.logger.Debug("state transition rejected",
			ports.String("from", s.lifecycle.State().String()),
			ports.String("to", state.String()),
			ports.Err(err),
		)
		return false
	}
	return true
}

func (s *Sequencer) closeQuietly(enc ports.FrameEncoder) {
	defer func() { _ = recover() }()
	if err := enc.Close(); err != nil {
		s.logger.Warn("encoder close failed", ports.Err(err))
	}
}
