package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateScanPath checks that path names a file inside root once cleaned.
// Relative paths are resolved against the working directory, like root.
func ValidateScanPath(root, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve scan directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the scan directory", path)
	}
	return nil
}
