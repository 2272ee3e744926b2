package main

import (
	"github.com/spf13/cobra"
)

func newMirrorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Run only the mirror phase",
		Long: `Invokes the external copy tool to make the destination tree match the
source tree, without verifying afterwards. Exit codes at or below the
success threshold are treated as success per the tool's convention.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if failed := executeMirror(cfg); failed {
				return &exitCodeError{code: 2}
			}
			return nil
		},
	}

	addVerifyFlags(cmd)
	addMirrorFlags(cmd)
	return cmd
}
