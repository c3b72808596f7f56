package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/G-Research/submitfilter/internal/submitfilter"
)

const (
	configFlag         = "config"
	debugFlag          = "debug"
	optionsFlag        = "options"
	partitionsFileFlag = "partitions-file"
)

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringSlice(configFlag, nil,
		"Config files merged over ./config/submitfilter/config.yaml, in order.")
	cmd.PersistentFlags().Bool(debugFlag, false, "Emit debug diagnostics.")
	cmd.PersistentFlags().String(partitionsFileFlag, "",
		"Read partitions from a file captured with `scontrol -o show partition` instead of running scontrol.")
}

func addOptionsFlag(cmd *cobra.Command) {
	cmd.Flags().String(optionsFlag, "", "JSON file of job options. Standard input is read if not given.")
}

// initParams copies flags into app.Params and loads config.
func initParams(flags *pflag.FlagSet, app *submitfilter.App) error {
	var err error
	if app.Params.ConfigFiles, err = flags.GetStringSlice(configFlag); err != nil {
		return err
	}
	if app.Params.Debug, err = flags.GetBool(debugFlag); err != nil {
		return err
	}
	if app.Params.PartitionsFile, err = flags.GetString(partitionsFileFlag); err != nil {
		return err
	}
	if flags.Lookup(optionsFlag) != nil {
		if app.Params.OptionsFile, err = flags.GetString(optionsFlag); err != nil {
			return err
		}
	}
	return app.LoadConfig()
}
