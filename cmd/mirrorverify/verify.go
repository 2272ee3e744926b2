package main

import (
	"github.com/spf13/cobra"
)

func newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the destination tree against the source by content hash",
		Long: `Hashes every regular file under the source and destination roots and
compares them path by path. Files recorded in the checkpoint are skipped
entirely; newly confirmed files are appended to it, so an interrupted run
resumes where it left off. Outcomes go to the rotating hash log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			report, err := executeVerify(cfg)
			if err != nil {
				return err
			}
			if report.Failed() {
				return &exitCodeError{code: 1}
			}
			return nil
		},
	}

	addVerifyFlags(cmd)
	return cmd
}
