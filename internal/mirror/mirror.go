// Package mirror invokes the external copy tool that makes the destination
// tree match the source tree. Only the invocation contract lives here: the
// argument set and the exit-code classification. The copy algorithm itself
// (retries, backoff, network resilience) belongs to the tool.
package mirror

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// Status classifies the copy tool's exit.
type Status int

const (
	// StatusSuccess means the tool exited zero: nothing needed copying.
	StatusSuccess Status = iota
	// StatusSuccessWithCopies covers small non-zero codes at or below the
	// success threshold: files were copied, possibly with extras noted.
	StatusSuccessWithCopies
	// StatusFailure covers codes above the threshold or a failed start.
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSuccessWithCopies:
		return "success (files copied)"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// DefaultSuccessThreshold follows the robocopy convention where exit codes
// up to 3 indicate a completed copy.
const DefaultSuccessThreshold = 3

// Config describes one mirror invocation.
type Config struct {
	// Tool is the copy executable. Robocopy-style flags are assumed.
	Tool string

	Source string
	Dest   string

	// LogPath receives the tool's own appended log output.
	LogPath string

	// Retries and RetryWaitSec bound the tool's per-file retry behavior.
	Retries      int
	RetryWaitSec int

	// InterPacketGapMs throttles network bandwidth between packets.
	InterPacketGapMs int

	// SuccessThreshold is the highest exit code still counted as success.
	// Zero means DefaultSuccessThreshold.
	SuccessThreshold int

	Stdout io.Writer
	Stderr io.Writer
}

// Result is the classified outcome of one invocation.
type Result struct {
	Status   Status
	ExitCode int
}

// Invoke runs the copy tool once and classifies its exit code. A non-nil
// error means the mirror step failed; the caller is expected to report it
// and still run verification against whatever destination state exists.
func Invoke(cfg Config) (Result, error) {
	cmd := exec.Command(cfg.Tool, BuildArgs(cfg)...) // #nosec G204
	cmd.Stdout = cfg.Stdout
	cmd.Stderr = cfg.Stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res := Classify(exitErr.ExitCode(), cfg.SuccessThreshold)
			if res.Status != StatusFailure {
				return res, nil
			}
			return res, fmt.Errorf("mirror tool %s exited with code %d", cfg.Tool, res.ExitCode)
		}
		return Result{Status: StatusFailure, ExitCode: -1}, fmt.Errorf("mirror tool %s failed to start: %w", cfg.Tool, err)
	}

	return Classify(0, cfg.SuccessThreshold), nil
}

// Classify maps an exit code to a Status using the small-codes-are-success
// convention.
func Classify(exitCode, threshold int) Result {
	if threshold <= 0 {
		threshold = DefaultSuccessThreshold
	}
	res := Result{ExitCode: exitCode}
	switch {
	case exitCode == 0:
		res.Status = StatusSuccess
	case exitCode > 0 && exitCode <= threshold:
		res.Status = StatusSuccessWithCopies
	default:
		res.Status = StatusFailure
	}
	return res
}

// BuildArgs assembles the fixed robocopy-style argument set: recursive copy
// preserving timestamps, bounded retries, copy-only-newer semantics, no
// per-directory listing noise, and output teed to console plus an appended
// log file.
func BuildArgs(cfg Config) []string {
	args := []string{
		cfg.Source,
		cfg.Dest,
		"/E",        // recurse, including empty directories
		"/COPY:DAT", // data, attributes, timestamps
		"/DCOPY:T",  // directory timestamps
		"/XO",       // skip files already present and not older
		"/NDL",      // suppress directory listing
		"/TEE",      // tee output to console
		"/R:" + strconv.Itoa(cfg.Retries),
		"/W:" + strconv.Itoa(cfg.RetryWaitSec),
	}
	if cfg.InterPacketGapMs > 0 {
		args = append(args, "/IPG:"+strconv.Itoa(cfg.InterPacketGapMs))
	}
	if cfg.LogPath != "" {
		args = append(args, "/LOG+:"+cfg.LogPath)
	}
	return args
}
