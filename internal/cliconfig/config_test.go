package cliconfig

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bft-labs/img2mp4/pkg/render"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 512 || cfg.Height != 512 {
		t.Errorf("size = %dx%d, want 512x512", cfg.Width, cfg.Height)
	}
	if cfg.DurationMS != 40 {
		t.Errorf("DurationMS = %v, want 40", cfg.DurationMS)
	}
	if cfg.Codec != render.CodecH264 {
		t.Errorf("Codec = %v, want %v", cfg.Codec, render.CodecH264)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "no inputs is not a config error", mutate: func(c *Config) { c.Inputs, c.Output = nil, "" }},
		{name: "smallest size", mutate: func(c *Config) { c.Width, c.Height = 1, 1 }},
		{name: "largest size", mutate: func(c *Config) { c.Width, c.Height = 8192, 8192 }},
		{name: "width zero", mutate: func(c *Config) { c.Width = 0 }, wantErr: "width"},
		{name: "height too large", mutate: func(c *Config) { c.Height = 8193 }, wantErr: "height"},
		{name: "duration zero", mutate: func(c *Config) { c.DurationMS = 0 }, wantErr: "duration"},
		{name: "duration max", mutate: func(c *Config) { c.DurationMS = 10000 }},
		{name: "duration too long", mutate: func(c *Config) { c.DurationMS = 10001 }, wantErr: "duration"},
		{name: "codec case", mutate: func(c *Config) { c.Codec = " MPEG4 " }},
		{name: "codec unknown", mutate: func(c *Config) { c.Codec = "vp9" }, wantErr: "codec"},
		{name: "crf zero", mutate: func(c *Config) { c.CRF = 0 }},
		{name: "crf too high", mutate: func(c *Config) { c.CRF = 52 }, wantErr: "crf"},
		{name: "log level unknown", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log level"},
		{name: "log level empty", mutate: func(c *Config) { c.LogLevel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateNormalizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Codec = "MPEG4"
	cfg.LogLevel = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Codec != render.CodecMPEG4 {
		t.Errorf("Codec = %q, want %q", cfg.Codec, render.CodecMPEG4)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestConfig_RenderConfigAndJob(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.DurationMS = 640, 360, 100
	cfg.Codec = render.CodecMPEG4
	cfg.Verify = true

	rc := cfg.RenderConfig()
	if rc.Codec != render.CodecMPEG4 || !rc.Verify {
		t.Errorf("RenderConfig() = %+v", rc)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("RenderConfig() invalid: %v", err)
	}

	job := cfg.Job([]string{"a.png"}, "out.mp4")
	if job.ID == "" {
		t.Error("job has no ID")
	}
	if job.Size != (render.Size{Width: 640, Height: 360}) {
		t.Errorf("Size = %v", job.Size)
	}
	if job.FrameDuration != 100 || job.Destination != "out.mp4" || len(job.Sources) != 1 {
		t.Errorf("Job() = %+v", job)
	}
}

func TestLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := Logger(tt.level).GetLevel(); got != tt.want {
			t.Errorf("Logger(%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}
