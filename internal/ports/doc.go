// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [FrameComposer]: Turns one source image into one fixed-size frame
//   - [EncoderFactory] and [FrameEncoder]: Open the video writer and feed it frames
//   - [VideoProbe]: Inspects a finished video file
//   - [ReportRepository]: Persists the terminal render report
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (ffmpeg, file system, zerolog, etc.).
package ports
