package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of every environment variable read by ApplyEnvConfig.
const EnvPrefix = "IMG2MP4_"

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment. Variables already set are left alone and missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables (IMG2MP4_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setStrings("inputs", splitList(os.Getenv(EnvPrefix+"INPUTS")), &cfg.Inputs)
	s.setString("output", os.Getenv(EnvPrefix+"OUTPUT"), &cfg.Output)
	s.setString("report", os.Getenv(EnvPrefix+"REPORT"), &cfg.Report)
	s.setString("codec", os.Getenv(EnvPrefix+"CODEC"), &cfg.Codec)
	s.setString("ffmpeg", os.Getenv(EnvPrefix+"FFMPEG"), &cfg.FFmpegPath)
	s.setString("preset", os.Getenv(EnvPrefix+"PRESET"), &cfg.Preset)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)
	s.setString("lang", os.Getenv(EnvPrefix+"LANG"), &cfg.Lang)

	if err := s.setIntFromString("width", os.Getenv(EnvPrefix+"WIDTH"), 1, &cfg.Width); err != nil {
		return err
	}
	if err := s.setIntFromString("height", os.Getenv(EnvPrefix+"HEIGHT"), 1, &cfg.Height); err != nil {
		return err
	}
	if err := s.setIntFromString("duration", os.Getenv(EnvPrefix+"DURATION_MS"), 1, &cfg.DurationMS); err != nil {
		return err
	}
	if err := s.setIntFromString("crf", os.Getenv(EnvPrefix+"CRF"), 0, &cfg.CRF); err != nil {
		return err
	}

	s.setBoolFromString("verify", os.Getenv(EnvPrefix+"VERIFY"), &cfg.Verify)
	s.setBoolFromString("watch", os.Getenv(EnvPrefix+"WATCH"), &cfg.Watch)

	return nil
}

// splitList splits a list of paths separated by the OS path list separator.
func splitList(v string) []string {
	var out []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
