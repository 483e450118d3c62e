package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coursesum/internal/config"
	"coursesum/internal/kvstore"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set your key with `coursesum apikey set` (or export OPENROUTER_API_KEY) before summarizing.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, renderField("Data dir", cfg.Paths.DataDir))
			fmt.Fprintln(out, renderField("Bridge", cfg.Paths.APIBind))
			fmt.Fprintln(out, renderField("Model", cfg.LLM.Model))
			fmt.Fprintln(out, renderField("API key", yesNo(cfg.LLM.APIKey != "")))
			if _, err := os.Stat(cfg.StorePath()); err == nil {
				keys, err := storedKeys(cmd.Context(), cfg.StorePath())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderField("Stored keys", keys))
			} else {
				fmt.Fprintln(out, renderField("Store", "not created yet"))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// storedKeys lists the keys held by the store at path without creating it.
func storedKeys(ctx context.Context, path string) (string, error) {
	store, err := kvstore.OpenPath(path)
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	keys, err := store.Keys(ctx)
	if err != nil {
		return "", fmt.Errorf("list stored keys: %w", err)
	}
	if len(keys) == 0 {
		return "none", nil
	}
	return strings.Join(keys, ", "), nil
}
