// Package verify compares a source tree against a freshly mirrored
// destination tree by content hash, resuming from a checkpoint and writing
// one outcome line per file to a rotation-bounded log.
package verify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"mirrorverify/internal/checkpoint"
	"mirrorverify/internal/index"
	"mirrorverify/internal/metrics"
	"mirrorverify/internal/progress"
)

// Params configures one verification pass.
type Params struct {
	SourceRoot     string
	DestRoot       string
	CheckpointPath string
	LogPath        string
	MaxLogSize     int64
	Algorithm      string
	Workers        int

	// Console receives outcome and summary lines in addition to the log.
	// Optional.
	Console io.Writer

	// Bar and Stats are optional; Run allocates Stats when nil.
	Bar   *progress.Bar
	Stats *metrics.Stats
}

// Run executes the verification pass: rotate the log if oversize, load the
// checkpoint, hash both trees (skipping checkpointed paths), classify every
// source file, append outcomes to log and checkpoint, and emit a summary.
//
// Destination-only files are deliberately not examined: the pass checks
// source-to-destination completeness and fidelity, not destination
// cleanliness. Only an unreadable source root is fatal.
func Run(p Params) (*Report, error) {
	if _, err := os.Stat(p.SourceRoot); err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}

	stats := p.Stats
	if stats == nil {
		stats = &metrics.Stats{}
	}
	if p.Algorithm == "" {
		p.Algorithm = index.DefaultAlgorithm
	}

	logw, err := newLogWriter(p.LogPath, p.MaxLogSize, p.Console)
	if err != nil {
		return nil, err
	}

	cp, err := checkpoint.Load(p.CheckpointPath)
	if err != nil {
		return nil, err
	}

	// Checkpointed paths are excluded before hashing either side, so a
	// resumed run performs no redundant I/O at all. Skips are counted on the
	// source side only.
	srcOpts := index.Options{
		Workers:     p.Workers,
		Skip:        cp.Contains,
		SkipCounter: &stats.Skipped,
		Bar:         p.Bar,
		Stats:       stats,
	}
	dstOpts := index.Options{Workers: p.Workers, Skip: cp.Contains, Bar: p.Bar, Stats: stats}

	// The two trees are independent; hash them concurrently and join before
	// comparing.
	var (
		wg               sync.WaitGroup
		srcMap, dstMap   index.PathHashMap
		srcErrs, dstErrs []index.FileError
		srcErr, dstErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		srcMap, srcErrs, srcErr = index.Build(p.SourceRoot, p.Algorithm, srcOpts)
	}()
	go func() {
		defer wg.Done()
		dstMap, dstErrs, dstErr = index.Build(p.DestRoot, p.Algorithm, dstOpts)
	}()
	wg.Wait()

	if srcErr != nil {
		return nil, srcErr
	}
	// An absent destination root is equivalent to an empty destination tree:
	// every source file is simply missing.
	if dstErr != nil {
		dstMap = index.PathHashMap{}
	}

	report := &Report{Skipped: atomic.LoadInt64(&stats.Skipped)}
	dstFailed := make(map[string]index.FileError, len(dstErrs))
	for _, fe := range dstErrs {
		dstFailed[fe.Path] = fe
	}

	for rel, srcHash := range srcMap {
		dstHash, inDest := dstMap[rel]

		switch {
		case !inDest:
			if fe, failed := dstFailed[rel]; failed {
				msg := fmt.Sprintf("Could not hash destination file: %s (%v)", rel, fe.Err)
				report.Errors = append(report.Errors, msg)
				if lerr := logw.Line(msg); lerr != nil {
					return nil, lerr
				}
				continue
			}
			atomic.AddInt64(&stats.Missing, 1)
			report.Missing++
			msg := MissingInDestination.String() + ": " + rel
			report.Errors = append(report.Errors, msg)
			if lerr := logw.Line(msg); lerr != nil {
				return nil, lerr
			}
		case !strings.EqualFold(srcHash, dstHash):
			atomic.AddInt64(&stats.Mismatches, 1)
			report.Mismatched++
			msg := Mismatch.String() + ": " + rel
			report.Errors = append(report.Errors, msg)
			if lerr := logw.Line(msg); lerr != nil {
				return nil, lerr
			}
		default:
			atomic.AddInt64(&stats.Verified, 1)
			report.Verified++
			if aerr := cp.Add(rel); aerr != nil {
				// A stale checkpoint only costs re-verification next run.
				report.Errors = append(report.Errors, fmt.Sprintf("Checkpoint write failed: %s (%v)", rel, aerr))
			}
			if lerr := logw.Line(Verified.String() + ": " + rel); lerr != nil {
				return nil, lerr
			}
		}
	}

	for _, fe := range srcErrs {
		msg := fmt.Sprintf("Could not hash source file: %s (%v)", fe.Path, fe.Err)
		report.Errors = append(report.Errors, msg)
		if lerr := logw.Line(msg); lerr != nil {
			return nil, lerr
		}
	}

	if err := writeSummary(logw, report); err != nil {
		return nil, err
	}

	return report, nil
}

func writeSummary(logw *logWriter, r *Report) error {
	if !r.Failed() {
		return logw.Line("All files verified successfully.")
	}

	if err := logw.Line(fmt.Sprintf("VERIFICATION FAILED: %d problem(s) found", len(r.Errors))); err != nil {
		return err
	}
	for _, msg := range r.Errors {
		if err := logw.Line("  " + msg); err != nil {
			return err
		}
	}
	return nil
}
