package cmd

import (
	"github.com/spf13/cobra"

	"github.com/G-Research/submitfilter/internal/submitfilter"
)

func partitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Inspect partitions as the policy sees them.",
	}
	cmd.AddCommand(
		partitionShowCmd(submitfilter.New()),
		partitionDefaultCmd(submitfilter.New()),
		partitionListCmd(submitfilter.New()),
	)
	return cmd
}

func partitionShowCmd(app *submitfilter.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a parsed partition description as YAML. Shows the default partition if no name is given.",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd.Flags(), app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return app.ShowPartition(cmd.Context(), name)
		},
	}
	return cmd
}

func partitionDefaultCmd(app *submitfilter.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print the name of the default partition.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd.Flags(), app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.DefaultPartition(cmd.Context())
		},
	}
	return cmd
}

func partitionListCmd(app *submitfilter.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a table of all partitions.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd.Flags(), app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListPartitions(cmd.Context())
		},
	}
	return cmd
}
