package render

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/img2mp4/internal/adapters/ffmpeg"
	logAdapter "github.com/bft-labs/img2mp4/internal/adapters/log"
	"github.com/bft-labs/img2mp4/internal/app"
	"github.com/bft-labs/img2mp4/internal/compositor"
	"github.com/bft-labs/img2mp4/internal/ports"
)

// Renderer renders jobs into videos, one at a time, on a worker goroutine.
// Use New() to create an instance, then Start() or Render().
type Renderer struct {
	config   Config
	opts     options
	logger   ports.Logger
	encoders ports.EncoderFactory
	composer ports.FrameComposer
	probe    ports.VideoProbe

	mu        sync.Mutex
	sequencer *app.Sequencer
	cancel    context.CancelFunc
	done      chan struct{}
	result    Result
	started   bool
}

// New creates a new Renderer with the given configuration.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Renderer, error) {
	cfg.SetDefaults()

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.eventBuffer > 0 {
		cfg.EventBuffer = o.eventBuffer
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}
	if o.eventHandler == nil {
		o.eventHandler = BaseEventHandler{}
	}

	encoders := o.encoders
	if encoders == nil {
		encoders = ffmpeg.NewEncoderFactory(cfg.encoderConfig(), logger)
	}
	composer := o.composer
	if composer == nil {
		composer = compositor.New()
	}
	probe := o.probe
	if probe == nil && cfg.Verify {
		probe = ffmpeg.NewProber(cfg.ProbeTimeout)
	}

	done := make(chan struct{})
	close(done)

	return &Renderer{
		config:   cfg,
		opts:     o,
		logger:   logger,
		encoders: encoders,
		composer: composer,
		probe:    probe,
		done:     done,
	}, nil
}

// Start begins rendering job in the background and returns immediately.
// A job without an ID gets a random one. Returns ErrAlreadyRunning if a job
// is still active. Precondition failures (no input, no destination) are
// reported through the Result, not by Start.
//
// The provided context bounds the job: cancelling it has the same effect as
// Cancel().
func (r *Renderer) Start(ctx context.Context, job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active() {
		return ErrAlreadyRunning
	}

	job = job.Snapshot()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	runCtx, cancel := context.WithCancel(ctx)
	d := newDispatcher(r.opts.eventHandler, r.config.EventBuffer)
	seq := app.NewSequencer(
		app.SequencerConfig{Verify: r.config.Verify},
		r.composer,
		r.encoders,
		r.probe,
		r.logger,
		&observer{jobID: job.ID, d: d},
	)
	done := make(chan struct{})

	r.sequencer = seq
	r.cancel = cancel
	r.done = done
	r.result = Result{}
	r.started = true

	go func() {
		defer cancel()
		result := seq.Render(runCtx, job)
		r.saveReport(job, result)

		// Every earlier event reaches the handler before OnFinished, and
		// OnFinished before Wait returns.
		d.finish(result)

		r.mu.Lock()
		r.result = result
		r.mu.Unlock()
		close(done)
	}()

	return nil
}

func (r *Renderer) saveReport(job Job, result Result) {
	if r.opts.reports == nil {
		return
	}
	// The job context may already be cancelled.
	if err := r.opts.reports.Save(context.Background(), job, result); err != nil {
		r.logger.Error("failed to save report", ports.String("job_id", job.ID), ports.Err(err))
	}
}

// active reports whether a job is running. Callers hold r.mu.
func (r *Renderer) active() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Cancel requests the running job to stop at the next frame boundary.
// It returns immediately; use Wait() or Done() to observe the result.
// Cancel is a no-op when no job is running.
func (r *Renderer) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done returns a channel that is closed when the current job has finished.
// It is closed already when no job is running.
func (r *Renderer) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Wait blocks until the current or last job has finished and returns its result.
// Returns ErrNotStarted if Start() was never called.
func (r *Renderer) Wait() (Result, error) {
	r.mu.Lock()
	started := r.started
	done := r.done
	r.mu.Unlock()

	if !started {
		return Result{}, ErrNotStarted
	}
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, nil
}

// Render runs job to completion and returns its result.
// Cancelling ctx cancels the job.
func (r *Renderer) Render(ctx context.Context, job Job) (Result, error) {
	if err := r.Start(ctx, job); err != nil {
		return Result{}, err
	}
	return r.Wait()
}

// Status returns the state of the current or last job.
// Safe to call concurrently from any goroutine.
func (r *Renderer) Status() State {
	r.mu.Lock()
	seq := r.sequencer
	r.mu.Unlock()

	if seq == nil {
		return StateIdle
	}
	return convertState(seq.State())
}
