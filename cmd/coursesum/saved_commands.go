package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"coursesum/internal/api"
	"coursesum/internal/summaries"
)

func newSavedCommand(ctx *commandContext) *cobra.Command {
	savedCmd := &cobra.Command{
		Use:     "saved",
		Aliases: []string{"summaries"},
		Short:   "Manage saved summaries",
	}

	savedCmd.AddCommand(newSavedListCommand(ctx))
	savedCmd.AddCommand(newSavedShowCommand(ctx))
	savedCmd.AddCommand(newSavedDeleteCommand(ctx))
	savedCmd.AddCommand(newSavedClearCommand(ctx))

	return savedCmd
}

func (c *commandContext) summaryService() (*api.SummaryService, error) {
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	return api.NewSummaryService(summaries.NewCollection(store, summaries.WithLogger(c.log()))), nil
}

// resolveSummaryID accepts a summary id or its 1-based position in the list.
func resolveSummaryID(cmd *cobra.Command, svc *api.SummaryService, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("summary id is required")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return arg, nil
	}
	items, err := svc.List(cmd.Context())
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(items) {
		return "", fmt.Errorf("summary %d out of range (%d saved)", n, len(items))
	}
	return items[n-1].ID, nil
}

func newSavedListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved summaries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.summaryService()
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("load summaries: %w", err)
			}
			if asJSON {
				if items == nil {
					items = []api.SummaryItem{}
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No summaries saved yet.")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for i, item := range items {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					formatTimestamp(item.Timestamp),
					item.Title,
					item.URL,
					item.ID,
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "#", Align: alignRight},
				{Header: "Saved"},
				{Header: "Title", MaxWidth: 40},
				{Header: "URL", MaxWidth: 50},
				{Header: "ID"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summaries as JSON")
	return cmd
}

func newSavedShowCommand(ctx *commandContext) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id|#>",
		Short: "Print a saved summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.summaryService()
			if err != nil {
				return err
			}
			id, err := resolveSummaryID(cmd, svc, args[0])
			if err != nil {
				return err
			}
			item, err := svc.Describe(cmd.Context(), id)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("summary %s not found", id)
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, item.Summary)
				return nil
			}
			for _, line := range renderSectionHeader(item.Title, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderField("Saved", formatTimestamp(item.Timestamp)))
			if item.URL != "" {
				fmt.Fprintln(out, renderField("URL", item.URL))
			}
			fmt.Fprintln(out, renderField("ID", item.ID))
			fmt.Fprintln(out)
			fmt.Fprint(out, terminalMarkdown(out, item.Summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the stored Markdown unrendered")
	return cmd
}

func newSavedDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id|#>",
		Short: "Delete a saved summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.summaryService()
			if err != nil {
				return err
			}
			id, err := resolveSummaryID(cmd, svc, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), out, "Are you sure you want to delete this summary?")
				if err != nil || !ok {
					fmt.Fprintln(out, "Cancelled.")
					return err
				}
			}
			removed, err := svc.Remove(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("delete summary: %w", err)
			}
			if !removed {
				return fmt.Errorf("summary %s not found", id)
			}
			fmt.Fprintf(out, "Deleted summary %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without confirmation")
	return cmd
}

func newSavedClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.summaryService()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), out, "ARE YOU SURE you want to delete ALL saved summaries? This cannot be undone.")
				if err != nil || !ok {
					fmt.Fprintln(out, "Cancelled.")
					return err
				}
			}
			if err := svc.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("delete all summaries: %w", err)
			}
			fmt.Fprintln(out, "All summaries deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without confirmation")
	return cmd
}
