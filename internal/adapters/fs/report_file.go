package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/img2mp4/internal/domain"
)

// ReportFileRepository implements ports.ReportRepository using a JSON file.
type ReportFileRepository struct {
	path string
	now  func() time.Time
}

// NewReportFileRepository creates a repository writing the report to path.
func NewReportFileRepository(path string) *ReportFileRepository {
	return &ReportFileRepository{path: path, now: time.Now}
}

// Report is the on-disk shape of a render report.
type Report struct {
	JobID           string               `json:"job_id"`
	Outcome         string               `json:"outcome"`
	Failure         string               `json:"failure,omitempty"`
	Error           string               `json:"error,omitempty"`
	Output          string               `json:"output,omitempty"`
	Size            domain.Size          `json:"size"`
	FrameDurationMS int                  `json:"frame_duration_ms"`
	FrameRate       string               `json:"frame_rate"`
	Total           int                  `json:"total"`
	Processed       int                  `json:"processed"`
	Frames          int                  `json:"frames"`
	Skipped         []domain.SkippedItem `json:"skipped"`
	Video           *domain.VideoInfo    `json:"video,omitempty"`
	ElapsedMS       int64                `json:"elapsed_ms"`
	FinishedAt      time.Time            `json:"finished_at"`
}

// NewReport builds the report for a finished job.
func NewReport(job domain.RenderJob, result domain.RenderResult, finishedAt time.Time) Report {
	skipped := result.Skipped
	if skipped == nil {
		skipped = []domain.SkippedItem{}
	}
	return Report{
		JobID:           result.JobID,
		Outcome:         result.Outcome.String(),
		Failure:         result.FailureKind(),
		Error:           result.ErrorMessage(),
		Output:          result.Output,
		Size:            job.Size,
		FrameDurationMS: job.EffectiveDuration(),
		FrameRate:       job.FrameRate(),
		Total:           result.Total,
		Processed:       result.Processed,
		Frames:          result.Frames,
		Skipped:         skipped,
		Video:           result.Video,
		ElapsedMS:       result.Duration.Milliseconds(),
		FinishedAt:      finishedAt.UTC(),
	}
}

// Save persists the report atomically.
// Uses atomic write (write to temp file, then rename) to prevent partial reports.
func (r *ReportFileRepository) Save(ctx context.Context, job domain.RenderJob, result domain.RenderResult) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(NewReport(job, result, r.now()), "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, r.path)
}

// Load reads a previously saved report.
func (r *ReportFileRepository) Load() (Report, error) {
	var rep Report
	data, err := os.ReadFile(r.path)
	if err != nil {
		return rep, err
	}
	err = json.Unmarshal(data, &rep)
	return rep, err
}

// Path returns the full path to the report file.
func (r *ReportFileRepository) Path() string {
	return r.path
}
