package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mirrorverify/internal/config"
	"mirrorverify/internal/metrics"
	"mirrorverify/internal/mirror"
	"mirrorverify/internal/progress"
	"mirrorverify/internal/verify"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Mirror the source tree, then verify the copy",
		Long: `Runs the full pipeline: the mirror phase copies the source tree to the
destination with the external copy tool, then the verify phase hashes both
trees and compares them. A mirror failure is reported but does not stop
verification, which runs against whatever destination state exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			mirrorFailed := executeMirror(cfg)

			report, err := executeVerify(cfg)
			if err != nil {
				return err
			}

			switch {
			case report.Failed():
				return &exitCodeError{code: 1}
			case mirrorFailed:
				return &exitCodeError{code: 2}
			}
			return nil
		},
	}

	addVerifyFlags(cmd)
	addMirrorFlags(cmd)
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "source root path")
	cmd.Flags().String("dest", "", "destination root path")
	cmd.Flags().String("log-dir", "", "directory for the hash log, mirror log, and checkpoint")
	cmd.Flags().String("algorithm", "", "hash algorithm (SHA256, SHA1, SHA512, SHA384, MD5, XXH3; default SHA256)")
	cmd.Flags().Int("workers", 0, "concurrent hashing workers (default 2)")
	cmd.Flags().String("max-log-size", "", "hash log rotation threshold (default \"50 MB\")")
}

func addMirrorFlags(cmd *cobra.Command) {
	cmd.Flags().String("mirror-tool", "", "external copy tool (default robocopy)")
	cmd.Flags().Int("mirror-retries", 0, "copy tool retry count (default 5)")
	cmd.Flags().Int("mirror-retry-wait", 0, "seconds between copy retries (default 5)")
	cmd.Flags().Int("mirror-ipg", 0, "inter-packet gap in ms, throttles copy bandwidth")
	cmd.Flags().Int("mirror-success-threshold", 0, "highest copy tool exit code counted as success (default 3)")
}

// executeMirror runs the copy phase and reports whether it hard-failed.
func executeMirror(cfg *config.Config) bool {
	res, err := mirror.Invoke(mirror.Config{
		Tool:             cfg.Mirror.Tool,
		Source:           cfg.Source,
		Dest:             cfg.Dest,
		LogPath:          cfg.MirrorLogPath(),
		Retries:          cfg.Mirror.Retries,
		RetryWaitSec:     cfg.Mirror.RetryWaitSec,
		InterPacketGapMs: cfg.Mirror.InterPacketGapMs,
		SuccessThreshold: cfg.Mirror.SuccessThreshold,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Mirror step failed: %v\n", err)
		color.New(color.FgYellow).Fprintln(os.Stderr, "Continuing with verification against current destination state.")
		return true
	}

	color.New(color.FgGreen).Fprintf(os.Stdout, "Mirror step finished: %s (exit code %d)\n", res.Status, res.ExitCode)
	return false
}

// executeVerify runs the verification phase, printing live progress, stats,
// and the itemized findings.
func executeVerify(cfg *config.Config) (*verify.Report, error) {
	maxLogSize, err := cfg.MaxLogSizeBytes()
	if err != nil {
		return nil, err
	}

	stats := &metrics.Stats{}
	stats.Start()

	bar := progress.New(-1, func() (p, total, verified, mismatch, missing, errc, bytesHashed int64) {
		p = atomic.LoadInt64(&stats.Processed)
		total = atomic.LoadInt64(&stats.Total)
		verified = atomic.LoadInt64(&stats.Verified)
		mismatch = atomic.LoadInt64(&stats.Mismatches)
		missing = atomic.LoadInt64(&stats.Missing)
		errc = atomic.LoadInt64(&stats.HashErrors)
		bytesHashed = atomic.LoadInt64(&stats.BytesHashed)
		return p, total, verified, mismatch, missing, errc, bytesHashed
	})

	report, runErr := verify.Run(verify.Params{
		SourceRoot:     cfg.Source,
		DestRoot:       cfg.Dest,
		CheckpointPath: cfg.CheckpointPath(),
		LogPath:        cfg.HashLogPath(),
		MaxLogSize:     maxLogSize,
		Algorithm:      cfg.Algorithm,
		Workers:        cfg.Workers,
		Bar:            bar,
		Stats:          stats,
	})

	bar.Close()
	stats.Stop()
	fmt.Println()

	if runErr != nil {
		return nil, runErr
	}

	metrics.Print(os.Stdout, stats)

	if report.Failed() {
		color.New(color.FgRed).Printf("VERIFICATION FAILED: %d problem(s) found\n", len(report.Errors))
		for _, msg := range report.Errors {
			color.New(color.FgRed).Printf("  %s\n", msg)
		}
	} else {
		color.New(color.FgGreen).Println("All files verified successfully.")
	}

	return report, nil
}
