package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/framereel/internal/domain"
)

// Discover expands the glob pattern and keeps regular files matching ext.
// An empty ext keeps every match. Order is left to the FrameIndex.
func Discover(pattern, ext string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: images pattern %q: %w", domain.ErrConfiguration, pattern, err)
	}

	var accepted []string
	if ext != "" {
		var ok bool
		if accepted, ok = domain.FrameExtensions(ext); !ok {
			return nil, fmt.Errorf("%w: unsupported ext %q", domain.ErrConfiguration, ext)
		}
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(accepted) > 0 && !hasExt(m, accepted) {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

func hasExt(path string, accepted []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range accepted {
		if ext == a {
			return true
		}
	}
	return false
}
