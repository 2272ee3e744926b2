// Package main provides the entry point for the mirrorverify CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

// exitCodeError carries a specific process exit status up through cobra, so
// automated callers can tell verification findings (1) apart from a mirror
// hard failure (2).
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mirrorverify",
		Short: "Mirror a directory tree and verify the copy by content hash",
		Long: `mirrorverify copies a source tree to a destination with an external
mirroring tool, then verifies the copy byte-for-byte via content hashing.
Verification resumes from a checkpoint after interruption, and the hash log
is rotated once it crosses a size threshold.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newMirrorCommand())
	rootCmd.AddCommand(newVerifyCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		var ec *exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "mirrorverify %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
