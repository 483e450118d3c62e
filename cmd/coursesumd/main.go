package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coursesum/internal/config"
	"coursesum/internal/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string

	cmd := &cobra.Command{
		Use:           "coursesumd",
		Short:         "Serve the coursesum bridge API on the loopback interface",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, _, _, err := config.Load(configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.NewFromConfig(cfg, true)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			d, err := buildDaemon(cfg, logger)
			if err != nil {
				logging.ErrorWithContext(logger, "create daemon", "daemon_init_failed", logging.Error(err))
				return err
			}
			defer func() {
				if err := d.Close(); err != nil {
					logger.Warn("daemon close", logging.Error(err))
				}
			}()

			if err := d.Start(ctx); err != nil {
				return fmt.Errorf("start daemon: %w", err)
			}

			<-ctx.Done()
			logger.Info("coursesumd shutting down")
			return ignoreCanceled(ctx.Err())
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	return cmd
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
