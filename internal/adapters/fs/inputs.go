package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the image extensions accepted from folders and
// explicit file arguments. Matching is case-insensitive.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tiff", ".tif", ".webp"}

// IsSupportedImage returns true if the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExpandInputs turns files and folders into the ordered source list of a job.
//
// Arguments keep their order. A folder expands non-recursively to its directly
// contained supported image files in lexical filename order. A file argument
// is kept when it has a supported extension, even if it does not exist yet;
// it is only opened at render time. Everything else is returned in ignored.
func ExpandInputs(args []string) (sources, ignored []string, err error) {
	for _, arg := range args {
		info, statErr := os.Stat(arg)
		if statErr == nil && info.IsDir() {
			files, err := ListFolder(arg)
			if err != nil {
				return nil, nil, err
			}
			sources = append(sources, files...)
			continue
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("stat %s: %w", arg, statErr)
		}
		if IsSupportedImage(arg) {
			sources = append(sources, arg)
		} else {
			ignored = append(ignored, arg)
		}
	}
	return sources, ignored, nil
}

// ListFolder returns the supported image files directly inside dir, sorted by
// filename. Subdirectories are not descended into.
func ListFolder(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by filename.
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedImage(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// NormalizeDestination appends ".mp4" unless path already ends with one of
// the given container extensions. An empty path stays empty.
func NormalizeDestination(path string, containerExts []string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range containerExts {
		if ext == e {
			return path
		}
	}
	return path + ".mp4"
}
