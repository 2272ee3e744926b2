package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"mirrorverify/internal/metrics"
	"mirrorverify/internal/progress"
)

// Options tunes a tree walk. All fields are optional.
type Options struct {
	// Workers is the number of concurrent hashing workers. Values <= 0 mean 1.
	Workers int

	// Skip, when non-nil, excludes a relative path from hashing entirely.
	// The engine wires the checkpoint set here so resumed runs never re-read
	// already-confirmed files.
	Skip func(rel string) bool

	// SkipCounter, when non-nil, is incremented for every path Skip excluded.
	SkipCounter *int64

	Bar   *progress.Bar
	Stats *metrics.Stats
}

// Build walks root and returns a mapping from relative path to content hash
// for every regular file beneath it. Files that cannot be hashed are returned
// as FileErrors without aborting the walk; only an unreadable root is fatal.
func Build(root string, algorithm string, opts Options) (PathHashMap, []FileError, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil, fmt.Errorf("index root: %w", err)
	}

	cands, walkErrs, err := collect(root, opts.Skip, opts.SkipCounter)
	if err != nil {
		return nil, nil, err
	}

	if opts.Stats != nil {
		var totalBytes int64
		for _, c := range cands {
			totalBytes += c.size
		}
		atomic.AddInt64(&opts.Stats.Total, int64(len(cands)))
		atomic.AddInt64(&opts.Stats.TotalBytes, totalBytes)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	hashes := make(PathHashMap, len(cands))
	fileErrs := walkErrs

	var mu sync.Mutex
	jobs := make(chan candidate)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()

		for c := range jobs {
			var bytesSent int64
			hx, herr := FileHashHex(c.abs, algorithm, func(n int64) {
				bytesSent += n
				if opts.Stats != nil {
					atomic.AddInt64(&opts.Stats.BytesHashed, n)
				}
				if opts.Bar != nil {
					opts.Bar.AddBytes(n)
				}
			})
			if opts.Bar != nil && c.size > bytesSent {
				opts.Bar.AddBytes(c.size - bytesSent)
			}
			if opts.Stats != nil {
				atomic.AddInt64(&opts.Stats.Processed, 1)
			}

			mu.Lock()
			if herr != nil {
				if opts.Stats != nil {
					atomic.AddInt64(&opts.Stats.HashErrors, 1)
				}
				fileErrs = append(fileErrs, FileError{Path: c.rel, Err: herr})
			} else {
				hashes[c.rel] = hx
			}
			mu.Unlock()
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}

	for _, c := range cands {
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	sort.Slice(fileErrs, func(i, j int) bool { return fileErrs[i].Path < fileErrs[j].Path })

	return hashes, fileErrs, nil
}

func collect(root string, skip func(rel string) bool, skipCounter *int64) ([]candidate, []FileError, error) {
	var cands []candidate
	var fileErrs []FileError

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			fileErrs = append(fileErrs, FileError{Path: rel, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if skip != nil && skip(rel) {
			if skipCounter != nil {
				atomic.AddInt64(skipCounter, 1)
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			fileErrs = append(fileErrs, FileError{Path: rel, Err: infoErr})
			return nil
		}

		cands = append(cands, candidate{rel: rel, abs: path, size: info.Size()})
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	return cands, fileErrs, nil
}
