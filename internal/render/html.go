package render

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/russross/blackfriday/v2"

	"coursesum/internal/logging"
)

const (
	// WarningFormatFailed is shown when conversion failed on this input.
	WarningFormatFailed = "Warning: Failed to format summary (displaying raw)."
	// WarningRendererMissing is shown when no Markdown renderer is configured.
	WarningRendererMissing = "Summary generated (raw format - marked library missing)."
)

// Result is rendered markup plus whether the raw fallback was used.
type Result struct {
	Markup   string
	Fallback bool
	Warning  string
}

// ConvertFunc converts Markdown to HTML. It may panic on malformed input.
type ConvertFunc func(markdown []byte) []byte

// Renderer converts Markdown to HTML with a raw-text fallback.
type Renderer struct {
	convert ConvertFunc
	logger  *slog.Logger
}

// NewRenderer returns a Renderer backed by blackfriday. Raw HTML in the
// Markdown is dropped.
func NewRenderer(logger *slog.Logger) *Renderer {
	return NewRendererWith(blackfridayConvert, logger)
}

// NewRendererWith uses convert instead of blackfriday. A nil convert behaves
// like a missing renderer.
func NewRendererWith(convert ConvertFunc, logger *slog.Logger) *Renderer {
	return &Renderer{convert: convert, logger: logging.NewComponentLogger(logger, "render")}
}

func blackfridayConvert(markdown []byte) []byte {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
	return blackfriday.Run(markdown,
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
		blackfriday.WithRenderer(renderer),
	)
}

// HTML renders markdown. It never returns an error; failures fall back to a
// <pre> block with a warning.
func (r *Renderer) HTML(markdown string) (result Result) {
	if r == nil || r.convert == nil {
		return Raw(markdown, WarningRendererMissing)
	}
	defer func() {
		if rec := recover(); rec != nil {
			logging.WarnWithContext(r.logger, "markdown conversion failed", "render_failed",
				logging.String("panic", fmt.Sprint(rec)),
				logging.Int("markdown_chars", len(markdown)),
				logging.String(logging.FieldImpact, "summary shown as raw text"),
			)
			result = Raw(markdown, WarningFormatFailed)
		}
	}()
	out := r.convert([]byte(markdown))
	return Result{Markup: strings.TrimSpace(string(out))}
}

// HTML renders markdown with the default renderer.
func HTML(markdown string) Result {
	return NewRenderer(nil).HTML(markdown)
}

// Raw wraps markdown verbatim in an escaped <pre> block.
func Raw(markdown, warning string) Result {
	return Result{
		Markup:   "<pre>" + html.EscapeString(markdown) + "</pre>",
		Fallback: true,
		Warning:  warning,
	}
}
