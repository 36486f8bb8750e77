package cmd

import (
	"github.com/spf13/cobra"

	"ytrim/internal/cli"
)

func newTuiCmd() *cobra.Command {
	var jf cli.JobFlags
	cmd := &cobra.Command{
		Use:           "tui <url> -o <output> -t <start,end> [-q <percent>]",
		Short:         "Force the interactive progress view",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactURL,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args[0], &jf, runMode{ForceTUI: true})
		},
	}
	bindJobFlags(cmd, &jf)
	return cmd
}
