package verify

import (
	"fmt"
	"io"
	"os"

	"mirrorverify/internal/logrotate"
)

// logWriter appends outcome lines to the hash log, checking the rotation
// threshold before the pass and after every line so a long run can rotate
// multiple times. Lines are optionally teed to a console writer.
type logWriter struct {
	path    string
	maxSize int64
	console io.Writer
}

func newLogWriter(path string, maxSize int64, console io.Writer) (*logWriter, error) {
	w := &logWriter{path: path, maxSize: maxSize, console: console}
	if _, err := logrotate.RotateIfNeeded(path, maxSize); err != nil {
		// Keep writing to the oversize file; content durability wins.
		w.warn(err)
	}
	return w, nil
}

// Line appends one line to the log, echoes it to the console, and rotates if
// the write pushed the file over budget. Rotation failures are warnings, not
// errors.
func (w *logWriter) Line(s string) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304
	if err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	if _, err := fmt.Fprintln(f, s); err != nil {
		_ = f.Close()
		return fmt.Errorf("append log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append log: %w", err)
	}

	if w.console != nil {
		fmt.Fprintln(w.console, s)
	}

	if _, err := logrotate.RotateIfNeeded(w.path, w.maxSize); err != nil {
		w.warn(err)
	}
	return nil
}

func (w *logWriter) warn(err error) {
	if w.console != nil {
		fmt.Fprintf(w.console, "warning: log rotation failed, continuing on oversize log: %v\n", err)
	}
}
