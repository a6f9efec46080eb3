// Package ui provides the visual styling for the gradegen interactive CLI.
// Light and dark palettes share the same semantic colors.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#101F38") // Dark Blue
	LightPrimary    = lipgloss.Color("#101F38")
	LightAccent     = lipgloss.Color("#8BC34A") // Lime Green
	LightMuted      = lipgloss.Color("#6b7280")
	LightBorder     = lipgloss.Color("#dce0e5")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#8BC34A") // Lime Green (flipped)
	DarkAccent     = lipgloss.Color("#8BC34A")
	DarkMuted      = lipgloss.Color("#9ca3af")
	DarkBorder     = lipgloss.Color("#2a3850")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#8BC34A") // Lime Green
	Warning     = lipgloss.Color("#FFC107") // Yellow
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeFor resolves a configured theme name. "auto" (or anything else) detects.
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; low background indices are dark.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("GRADEGEN_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Text
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Interactive
	Prompt    lipgloss.Style
	UserInput lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Components
	Divider lipgloss.Style
	Panel   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", width))
}

// Status renders a verdict in the success or error color.
func (s Styles) Status(pass bool, text string) string {
	if pass {
		return s.Success.Render(text)
	}
	return s.Error.Render(text)
}
