package api

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const previewLength = 120

// SummaryTitle returns the first Markdown heading of summary, falling back to
// the last path segment of pageURL and then "Untitled".
func SummaryTitle(summary, pageURL string) string {
	for line := range strings.Lines(summary) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if title := strings.TrimSpace(strings.TrimLeft(trimmed, "#")); title != "" {
			return title
		}
	}
	if parsed, err := url.Parse(strings.TrimSpace(pageURL)); err == nil {
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if last := segments[len(segments)-1]; last != "" {
			return last
		}
		if parsed.Host != "" {
			return parsed.Host
		}
	}
	return "Untitled"
}

// SummaryPreview returns the first non-heading text of summary collapsed to a
// single line and cut to at most limit runes.
func SummaryPreview(summary string, limit int) string {
	var parts []string
	for line := range strings.Lines(summary) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		trimmed = strings.TrimLeft(trimmed, "-*+> ")
		parts = append(parts, trimmed)
	}
	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
