// Package render turns summary Markdown into something displayable: HTML for
// the panel and the saved-summaries page, and styled text for terminals.
//
// Rendering never fails outright. When conversion panics or the renderer is
// unavailable, the raw Markdown is shown escaped inside a <pre> block (or
// printed as-is on a terminal) and the Result carries a warning for the
// status line.
package render
