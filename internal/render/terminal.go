package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// TerminalStyle selects a glamour style.
type TerminalStyle string

const (
	StyleNoTTY TerminalStyle = "notty"
	StyleDark  TerminalStyle = "dark"
	StyleLight TerminalStyle = "light"
)

// Terminal renders markdown for a terminal of the given width. On failure the
// raw markdown is returned with Fallback set.
func Terminal(markdown string, style TerminalStyle, width int) Result {
	if style == "" {
		style = StyleNoTTY
	}
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(string(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Result{Markup: markdown, Fallback: true, Warning: WarningRendererMissing}
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return Result{Markup: markdown, Fallback: true, Warning: WarningFormatFailed}
	}
	return Result{Markup: strings.TrimRight(out, "\n") + "\n"}
}
