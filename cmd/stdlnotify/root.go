package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "stdlnotify <endpoint> <status> <ptype> <uid> <vidname>",
		Short: "Report a finished stream download to a stdl server",
		Long: `Send a Completion Notice to <endpoint>/api/stdl/done and print the JSON reply.

The four notice fields are sent verbatim. Missing trailing arguments are left
out of the request body; fstype is always "local".

The endpoint is normally a URL. A first argument that names a subcommand
(health, stats, history, config, help) runs that subcommand instead.`,
		Args:              cobra.ArbitraryArgs,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotify(cmd, ctx, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	// Notice values may start with '-', so stop flag parsing at the endpoint.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(newHealthCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
