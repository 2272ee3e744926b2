// Package checkpoint persists the set of relative paths already confirmed
// identical between source and destination, so interrupted verification runs
// resume without re-hashing confirmed files.
//
// The on-disk format is one relative path per line, append-only. A crash may
// leave the file behind the log; that is harmless because re-verification is
// idempotent and Load deduplicates.
package checkpoint

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Set is the in-memory view of a checkpoint file. The verification engine is
// the sole writer; Add appends to the file and the set together.
type Set struct {
	path string
	seen map[string]struct{}
}

// Load reads the checkpoint file at path, trimming and deduplicating lines.
// A missing file is an empty set, not an error.
func Load(path string) (*Set, error) {
	s := &Set{path: path, seen: make(map[string]struct{})}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s.seen[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}

	return s, nil
}

func (s *Set) Contains(rel string) bool {
	_, ok := s.seen[rel]
	return ok
}

func (s *Set) Len() int { return len(s.seen) }

// Add records rel as confirmed, appending one line to the checkpoint file.
// Adding a path already in the set is a no-op.
func (s *Set) Add(rel string) error {
	if s.Contains(rel) {
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304
	if err != nil {
		return fmt.Errorf("append checkpoint: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := fmt.Fprintln(f, rel); err != nil {
		return fmt.Errorf("append checkpoint: %w", err)
	}

	s.seen[rel] = struct{}{}
	return nil
}
