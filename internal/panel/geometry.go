package panel

import (
	"fmt"
	"strconv"
	"strings"
)

// Viewport is the visible area of the host page in pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// Bounds describes the panel's rendered extent in pixels.
type Bounds struct {
	Width        float64
	HeaderHeight float64
}

// ClampPosition keeps a dragged panel's header on screen: top stays within
// [0, viewport height - header height] and left within
// [0, viewport width - panel width].
func ClampPosition(top, left float64, viewport Viewport, panel Bounds) (float64, float64) {
	maxTop := viewport.Height - panel.HeaderHeight
	maxLeft := viewport.Width - panel.Width
	return clamp(top, maxTop), clamp(left, maxLeft)
}

func clamp(v, upper float64) float64 {
	if v > upper {
		v = upper
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Px formats a pixel offset as a CSS length.
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// ParsePx reads a CSS pixel length such as "120px" or "120".
func ParsePx(raw string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "px")
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse pixel length %q: %w", raw, err)
	}
	return v, nil
}

// NormalizeLength accepts bare numbers as pixels and passes other CSS lengths
// through unchanged.
func NormalizeLength(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return raw + "px"
	}
	return raw
}
