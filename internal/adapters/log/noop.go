package log

import "github.com/bft-labs/img2mp4/internal/ports"

var (
	_ ports.Logger = NoopLogger{}
	_ ports.Logger = (*ZerologAdapter)(nil)
)

// NoopLogger discards everything. It is the renderer's default logger.
type NoopLogger struct{}

// NewNoopLogger returns a logger that writes nothing.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(string, ...ports.Field) {}
func (NoopLogger) Info(string, ...ports.Field)  {}
func (NoopLogger) Warn(string, ...ports.Field)  {}
func (NoopLogger) Error(string, ...ports.Field) {}
