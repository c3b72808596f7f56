package cmd

import (
	"github.com/spf13/cobra"

	"github.com/G-Research/submitfilter/internal/submitfilter"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submitfilter",
		Short: "submitfilter applies partition policy to Slurm job submissions.",
		Long: `submitfilter applies partition policy to Slurm job submissions.

Job options are read as a JSON object of option name to value, e.g.
{"partition": "gpu", "gpus": 1}, and written back the same way.

Config is read from ./config/submitfilter/config.yaml. Further files can be passed with
--config and values can be overridden with SUBMITFILTER_ environment variables, e.g.
SUBMITFILTER_POLICY_GPUSPERNODE=4.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addPersistentFlags(cmd)

	cmd.AddCommand(
		setupDefaultsCmd(submitfilter.New()),
		preSubmitCmd(submitfilter.New()),
		postSubmitCmd(submitfilter.New()),
		partitionCmd(),
		versionCmd(submitfilter.New()),
	)

	return cmd
}

// Print version info and exit.
func versionCmd(app *submitfilter.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Version()
		},
	}
	return cmd
}
