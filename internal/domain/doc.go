// Package domain contains the core domain entities and value objects for img2mp4.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (ffmpeg, file system, logging) and
// contains only the rules of a render job.
//
// # Entities
//
//   - [RenderJob]: An ordered snapshot of source image paths plus output geometry and timing
//   - [Frame]: A fixed-size three-channel BGR pixel buffer handed to the encoder
//   - [SkippedItem]: A source that failed to decode, kept for end-of-job reporting
//   - [RenderResult]: The terminal outcome of a job (completed, cancelled or failed)
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
