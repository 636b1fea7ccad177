package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/bft-labs/img2mp4/internal/domain"
)

// DefaultProbeTimeout bounds a single ffprobe run.
const DefaultProbeTimeout = 30 * time.Second

// Prober implements ports.VideoProbe using ffprobe.
type Prober struct {
	timeout time.Duration
}

// NewProber creates a prober. A non-positive timeout uses DefaultProbeTimeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{timeout: timeout}
}

// Probe reads the first video stream of path.
func (p *Prober) Probe(ctx context.Context, path string) (domain.VideoInfo, error) {
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.VideoInfo{}, err
	}

	out, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return domain.VideoInfo{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return ParseProbe([]byte(out))
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
	Duration   string `json:"duration"`
}

// ParseProbe extracts VideoInfo from ffprobe JSON output. When the container
// does not record a frame count it is derived from duration and frame rate.
func ParseProbe(data []byte) (domain.VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.VideoInfo{}, fmt.Errorf("parse probe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := domain.VideoInfo{
			Width:     s.Width,
			Height:    s.Height,
			FrameRate: parseRational(s.RFrameRate),
			Codec:     s.CodecName,
		}
		if n, err := strconv.Atoi(s.NbFrames); err == nil {
			info.Frames = n
		} else {
			dur := s.Duration
			if dur == "" {
				dur = out.Format.Duration
			}
			if d, err := strconv.ParseFloat(dur, 64); err == nil {
				info.Frames = int(math.Round(d * info.FrameRate))
			}
		}
		return info, nil
	}
	return domain.VideoInfo{}, errors.New("no video stream")
}

// parseRational parses "num/den" or a plain number. Invalid input yields 0.
func parseRational(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
