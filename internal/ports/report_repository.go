package ports

import (
	"context"

	"github.com/bft-labs/img2mp4/internal/domain"
)

// ReportRepository persists the terminal result of a render job.
type ReportRepository interface {
	// Save persists the report atomically.
	// The implementation should use atomic writes (e.g., write to temp file, then rename)
	// so readers never observe a partial report.
	Save(ctx context.Context, job domain.RenderJob, result domain.RenderResult) error
}
