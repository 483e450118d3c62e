package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "coursesum",
		Short:         "Summarize lecture transcripts with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newSummarizeCommand(ctx))
	rootCmd.AddCommand(newSavedCommand(ctx))
	rootCmd.AddCommand(newPanelCommand(ctx))
	rootCmd.AddCommand(newAPIKeyCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
