package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coursesum/internal/api"
	"coursesum/internal/workflow"
)

func newAPIKeyCommand(ctx *commandContext) *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the stored OpenRouter API key",
	}

	keyCmd.AddCommand(newAPIKeySetCommand(ctx))
	keyCmd.AddCommand(newAPIKeyShowCommand(ctx))
	keyCmd.AddCommand(newAPIKeyTestCommand(ctx))

	return keyCmd
}

func (c *commandContext) apiKeyService() (*api.APIKeyService, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	return api.NewAPIKeyService(store, cfg.LLM.APIKey), nil
}

func newAPIKeySetCommand(ctx *commandContext) *cobra.Command {
	var clearKey bool

	cmd := &cobra.Command{
		Use:   "set [key]",
		Short: "Store the API key (reads stdin when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.apiKeyService()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if clearKey {
				if err := svc.Set(cmd.Context(), ""); err != nil {
					return fmt.Errorf("clear API key: %w", err)
				}
				fmt.Fprintln(out, "API Key cleared.")
				return nil
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no API key given")
				}
				key = line
			}
			if strings.TrimSpace(key) == "" {
				return errors.New("API key is empty (use --clear to remove it)")
			}
			if err := svc.Set(cmd.Context(), key); err != nil {
				return fmt.Errorf("save API key: %w", err)
			}
			fmt.Fprintln(out, "API Key saved!")
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearKey, "clear", false, "Remove the stored key")
	return cmd
}

func newAPIKeyShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show which API key will be used (masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.apiKeyService()
			if err != nil {
				return err
			}
			status, err := svc.Status(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, status)
			}
			out := cmd.OutOrStdout()
			if !status.Set {
				fmt.Fprintln(out, renderStatusLine("API Key", statusWarn, "not set", shouldColorize(out)))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("API Key", statusOK, status.Masked, shouldColorize(out)))
			fmt.Fprintln(out, renderField("Source", titleLabel(status.Source)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the key status as JSON")
	return cmd
}

func newAPIKeyTestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a tiny request to verify the key and model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			key, err := workflow.ResolveAPIKey(cmd.Context(), store, cfg.LLM.APIKey)
			if err == nil {
				err = client.HealthCheck(cmd.Context(), key)
			}
			if err != nil {
				desc := workflow.Describe(err)
				fmt.Fprintln(out, renderStatusLine("API Key", statusError, desc.Status, colorize))
				fmt.Fprintln(out, renderField("Detail", desc.Output))
				return errReported
			}
			fmt.Fprintln(out, renderStatusLine("API Key", statusOK, "accepted", colorize))
			fmt.Fprintln(out, renderField("Model", client.Model()))
			return nil
		},
	}
}
