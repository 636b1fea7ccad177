package render

// Option configures optional behavior of a Renderer.
type Option func(*options)

// options holds the optional configuration for a Renderer instance.
type options struct {
	logger       Logger
	eventHandler EventHandler
	encoders     EncoderFactory
	composer     FrameComposer
	probe        VideoProbe
	reports      ReportRepository
	eventBuffer  int
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for renderer events.
// Events are delivered asynchronously and in order; see the package docs.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithEventBuffer overrides Config.EventBuffer.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithEncoderFactory replaces the ffmpeg encoder.
func WithEncoderFactory(factory EncoderFactory) Option {
	return func(o *options) {
		o.encoders = factory
	}
}

// WithComposer replaces the letterboxing frame compositor.
func WithComposer(composer FrameComposer) Option {
	return func(o *options) {
		o.composer = composer
	}
}

// WithProbe replaces the ffprobe-based verification probe.
func WithProbe(probe VideoProbe) Option {
	return func(o *options) {
		o.probe = probe
	}
}

// WithReportRepository persists every job's result after it finishes.
// Save errors are logged and do not change the result.
func WithReportRepository(repo ReportRepository) Option {
	return func(o *options) {
		o.reports = repo
	}
}
