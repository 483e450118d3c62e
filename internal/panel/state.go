package panel

import "fmt"

// Mode is the panel's collapsed state.
type Mode string

const (
	ModeMaximized Mode = "maximized"
	ModeMinimized Mode = "minimized"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeMaximized || m == ModeMinimized
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == ModeMinimized {
		return ModeMaximized
	}
	return ModeMinimized
}

// Theme is the panel's color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseMode converts user input into a Mode.
func ParseMode(raw string) (Mode, error) {
	m := Mode(raw)
	if !m.Valid() {
		return "", fmt.Errorf("unknown panel mode %q (want minimized or maximized)", raw)
	}
	return m, nil
}

// ParseTheme converts user input into a Theme.
func ParseTheme(raw string) (Theme, error) {
	t := Theme(raw)
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme %q (want light or dark)", raw)
	}
	return t, nil
}

// Position is the panel's top-left corner as CSS lengths.
type Position struct {
	Top  string `json:"top"`
	Left string `json:"left"`
}

// Complete reports whether both coordinates are set.
func (p Position) Complete() bool {
	return p.Top != "" && p.Left != ""
}

// Size is the panel's dimensions as CSS lengths.
type Size struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Complete reports whether both dimensions are set.
func (s Size) Complete() bool {
	return s.Width != "" && s.Height != ""
}

// State is the persisted panel layout. Position and Size are nil until the
// user has moved or resized the panel.
type State struct {
	Position *Position `json:"position,omitempty"`
	Size     *Size     `json:"size,omitempty"`
	Mode     Mode      `json:"mode"`
	Theme    Theme     `json:"theme"`
}

// DefaultState is the layout used when nothing has been stored.
func DefaultState() State {
	return State{Mode: ModeMaximized, Theme: ThemeLight}
}

// Minimized reports whether the panel is collapsed.
func (s State) Minimized() bool {
	return s.Mode == ModeMinimized
}

func (s State) clone() State {
	out := s
	if s.Position != nil {
		p := *s.Position
		out.Position = &p
	}
	if s.Size != nil {
		sz := *s.Size
		out.Size = &sz
	}
	return out
}
