package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config for TOML. Pointer fields distinguish an explicit
// zero or false from an absent key.
type FileConfig struct {
	Inputs     []string `toml:"inputs"`
	Output     string   `toml:"output"`
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	DurationMS int      `toml:"duration_ms"`
	Codec      string   `toml:"codec"`
	FFmpegPath string   `toml:"ffmpeg_path"`
	Preset     string   `toml:"preset"`
	CRF        *int     `toml:"crf"`
	Verify     *bool    `toml:"verify"`
	Report     string   `toml:"report"`
	Watch      *bool    `toml:"watch"`
	LogLevel   string   `toml:"log_level"`
	Lang       string   `toml:"lang"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.img2mp4/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".img2mp4", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). Relative
// input and output paths are resolved against the directory of the file.
func ApplyFileConfig(cfg *Config, fc FileConfig, baseDir string, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setStrings("inputs", resolvePaths(baseDir, fc.Inputs), &cfg.Inputs)
	s.setString("output", resolvePath(baseDir, fc.Output), &cfg.Output)
	s.setString("report", resolvePath(baseDir, fc.Report), &cfg.Report)
	s.setString("codec", fc.Codec, &cfg.Codec)
	s.setString("ffmpeg", fc.FFmpegPath, &cfg.FFmpegPath)
	s.setString("preset", fc.Preset, &cfg.Preset)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("lang", fc.Lang, &cfg.Lang)

	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)
	s.setInt("duration", fc.DurationMS, &cfg.DurationMS)
	s.setIntPtr("crf", fc.CRF, &cfg.CRF)

	s.setBool("verify", fc.Verify, &cfg.Verify)
	s.setBool("watch", fc.Watch, &cfg.Watch)
}

func resolvePath(baseDir, p string) string {
	if p == "" || baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func resolvePaths(baseDir string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolvePath(baseDir, p)
	}
	return out
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
