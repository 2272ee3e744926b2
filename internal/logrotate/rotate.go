// Package logrotate bounds a log file's size by renaming it aside once it
// crosses a byte threshold, freeing the original name for fresh writes.
package logrotate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RotateIfNeeded renames logPath to the lowest-numbered free archive name
// (<base>-1<ext>, <base>-2<ext>, ...) once its size reaches maxSize bytes.
// A missing log file or a non-positive maxSize is a no-op. Returns the
// archive path when a rotation happened.
//
// A failed rename is returned to the caller, which is expected to keep
// writing to the oversize file: preserving content beats enforcing the size
// bound.
func RotateIfNeeded(logPath string, maxSize int64) (string, error) {
	if maxSize <= 0 {
		return "", nil
	}

	info, err := os.Stat(logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < maxSize {
		return "", nil
	}

	archive := nextArchiveName(logPath)
	if err := os.Rename(logPath, archive); err != nil {
		return "", fmt.Errorf("rotate %s: %w", filepath.Base(logPath), err)
	}

	return archive, nil
}

// nextArchiveName probes <base>-N<ext> from N=1 upward and returns the first
// name not already present in the log directory.
func nextArchiveName(logPath string) string {
	ext := filepath.Ext(logPath)
	base := strings.TrimSuffix(logPath, ext)

	for n := 1; ; n++ {
		cand := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, err := os.Stat(cand); errors.Is(err, fs.ErrNotExist) {
			return cand
		}
	}
}
