package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coursesum/internal/panel"
)

func newPanelCommand(ctx *commandContext) *cobra.Command {
	panelCmd := &cobra.Command{
		Use:   "panel",
		Short: "Inspect or change the stored panel layout",
	}

	panelCmd.AddCommand(newPanelShowCommand(ctx))
	panelCmd.AddCommand(newPanelMoveCommand(ctx))
	panelCmd.AddCommand(newPanelResizeCommand(ctx))
	panelCmd.AddCommand(newPanelMinimizeCommand(ctx))
	panelCmd.AddCommand(newPanelThemeCommand(ctx))

	return panelCmd
}

// withPanel restores a controller from the store, runs fn, and closes the
// controller so queued writes reach the store. Diagnostics go to stderr.
func (c *commandContext) withPanel(cmd *cobra.Command, fn func(context.Context, *panel.Controller) error) (panel.State, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return panel.State{}, err
	}
	store, err := c.openStore()
	if err != nil {
		return panel.State{}, err
	}
	errOut := cmd.ErrOrStderr()
	colorize := shouldColorize(errOut)
	ctrl := panel.NewController(store, panel.NewMemoryView(),
		panel.WithLogger(c.log()),
		panel.WithDebounce(cfg.ResizeDebounce()),
		panel.WithSettleDelay(cfg.SettleDelay()),
		panel.WithDiagnostics(func(err error) {
			fmt.Fprintln(errOut, renderStatusLine("Panel", statusWarn, err.Error(), colorize))
		}),
	)
	runCtx := cmd.Context()
	if _, err := ctrl.Restore(runCtx); err != nil {
		_ = ctrl.Close()
		return panel.State{}, fmt.Errorf("restore panel: %w", err)
	}
	if fn != nil {
		if err := fn(runCtx, ctrl); err != nil {
			_ = ctrl.Close()
			return panel.State{}, err
		}
	}
	if err := ctrl.Close(); err != nil {
		return panel.State{}, err
	}
	return ctrl.State(), nil
}

func printPanelState(cmd *cobra.Command, state panel.State) {
	out := cmd.OutOrStdout()
	position := "default"
	if state.Position != nil {
		position = fmt.Sprintf("top %s, left %s", state.Position.Top, state.Position.Left)
	}
	size := "default"
	if state.Size != nil {
		size = fmt.Sprintf("%s x %s", state.Size.Width, state.Size.Height)
	}
	fmt.Fprintln(out, renderField("Mode", titleLabel(string(state.Mode))))
	fmt.Fprintln(out, renderField("Theme", titleLabel(string(state.Theme))))
	fmt.Fprintln(out, renderField("Position", position))
	fmt.Fprintln(out, renderField("Size", size))
}

func newPanelShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored panel layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := ctx.withPanel(cmd, nil)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, state)
			}
			printPanelState(cmd, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the layout as JSON")
	return cmd
}

func newPanelMoveCommand(ctx *commandContext) *cobra.Command {
	var viewport string
	var panelWidth, headerHeight float64

	cmd := &cobra.Command{
		Use:   "move <top> <left>",
		Short: "Store a panel position (bare numbers are pixels)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos := panel.Position{Top: panel.NormalizeLength(args[0]), Left: panel.NormalizeLength(args[1])}
			if !pos.Complete() {
				return errors.New("position requires top and left")
			}
			if strings.TrimSpace(viewport) != "" {
				clamped, err := clampToViewport(pos, viewport, panel.Bounds{Width: panelWidth, HeaderHeight: headerHeight})
				if err != nil {
					return err
				}
				pos = clamped
			}
			state, err := ctx.withPanel(cmd, func(_ context.Context, ctrl *panel.Controller) error {
				ctrl.DragEnd(pos)
				return nil
			})
			if err != nil {
				return err
			}
			printPanelState(cmd, state)
			return nil
		},
	}
	cmd.Flags().StringVar(&viewport, "viewport", "", "Clamp to a WIDTHxHEIGHT viewport in pixels")
	cmd.Flags().Float64Var(&panelWidth, "panel-width", 350, "Panel width used when clamping")
	cmd.Flags().Float64Var(&headerHeight, "header-height", 40, "Panel header height used when clamping")
	return cmd
}

// clampToViewport keeps the panel header inside viewport ("1280x720"). Both
// offsets must be pixel lengths.
func clampToViewport(pos panel.Position, viewport string, bounds panel.Bounds) (panel.Position, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(viewport)), "x")
	if !ok {
		return pos, fmt.Errorf("viewport %q must look like 1280x720", viewport)
	}
	width, err := panel.ParsePx(w)
	if err != nil {
		return pos, err
	}
	height, err := panel.ParsePx(h)
	if err != nil {
		return pos, err
	}
	top, err := panel.ParsePx(pos.Top)
	if err != nil {
		return pos, err
	}
	left, err := panel.ParsePx(pos.Left)
	if err != nil {
		return pos, err
	}
	top, left = panel.ClampPosition(top, left, panel.Viewport{Width: width, Height: height}, bounds)
	return panel.Position{Top: panel.Px(top), Left: panel.Px(left)}, nil
}

func newPanelResizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <width> <height>",
		Short: "Store a panel size (ignored while minimized)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size := panel.Size{Width: panel.NormalizeLength(args[0]), Height: panel.NormalizeLength(args[1])}
			if !size.Complete() {
				return errors.New("size requires width and height")
			}
			state, err := ctx.withPanel(cmd, func(_ context.Context, ctrl *panel.Controller) error {
				if ctrl.State().Minimized() {
					fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine("Panel", statusWarn, "panel is minimized; size not stored", shouldColorize(cmd.ErrOrStderr())))
					return nil
				}
				ctrl.ResizeSettle(size)
				return nil
			})
			if err != nil {
				return err
			}
			printPanelState(cmd, state)
			return nil
		},
	}
}

func newPanelMinimizeCommand(ctx *commandContext) *cobra.Command {
	var setMode string

	cmd := &cobra.Command{
		Use:   "minimize",
		Short: "Toggle the panel between minimized and maximized",
		RunE: func(cmd *cobra.Command, args []string) error {
			var target panel.Mode
			if setMode != "" {
				mode, err := panel.ParseMode(setMode)
				if err != nil {
					return err
				}
				target = mode
			}
			state, err := ctx.withPanel(cmd, func(runCtx context.Context, ctrl *panel.Controller) error {
				if target != "" {
					ctrl.SetMode(runCtx, target)
					return nil
				}
				ctrl.ToggleMinimize(runCtx)
				return nil
			})
			if err != nil {
				return err
			}
			printPanelState(cmd, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&setMode, "set", "", "Set the mode explicitly (minimized or maximized)")
	return cmd
}

func newPanelThemeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Toggle or set the panel theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target panel.Theme
			if len(args) == 1 {
				theme, err := panel.ParseTheme(args[0])
				if err != nil {
					return err
				}
				target = theme
			}
			state, err := ctx.withPanel(cmd, func(_ context.Context, ctrl *panel.Controller) error {
				if target != "" {
					ctrl.SetTheme(target)
					return nil
				}
				ctrl.ToggleTheme()
				return nil
			})
			if err != nil {
				return err
			}
			printPanelState(cmd, state)
			return nil
		},
	}
}
