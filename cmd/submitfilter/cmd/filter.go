package cmd

import (
	"github.com/spf13/cobra"

	"github.com/G-Research/submitfilter/internal/submitfilter"
)

func setupDefaultsCmd(app *submitfilter.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup-defaults",
		Short: "Set defaults the submitter may override, and print the options.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd.Flags(), app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			early, err := cmd.Flags().GetBool("early")
			if err != nil {
				return err
			}
			return app.SetupDefaults(early)
		},
	}
	addOptionsFlag(cmd)
	cmd.Flags().Bool("early", false, "Defaults are being set before the submitter's options are read.")
	return cmd
}

// Apply partition policy to job options.
// Exits non-zero, with the reason on standard error, if the job is rejected.
func preSubmitCmd(app *submitfilter.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pre-submit",
		Short: "Apply partition policy to job options and print the result.",
		Long: `Apply partition policy to job options and print the result.

Exit status is 2 if no partition could be determined, 3 if the partition could not be
described and 4 if the job breaks partition policy.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd.Flags(), app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.PreSubmit(cmd.Context())
		},
	}
	addOptionsFlag(cmd)
	return cmd
}

func postSubmitCmd(app *submitfilter.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post-submit",
		Short: "Run the post-submit hook. Does nothing.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd.Flags(), app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := cmd.Flags().GetUint32("job-id")
			if err != nil {
				return err
			}
			stepID, err := cmd.Flags().GetUint32("step-id")
			if err != nil {
				return err
			}
			return app.PostSubmit(jobID, stepID)
		},
	}
	cmd.Flags().Uint32("job-id", 0, "Id of the submitted job.")
	cmd.Flags().Uint32("step-id", 0, "Id of the submitted step.")
	return cmd
}
