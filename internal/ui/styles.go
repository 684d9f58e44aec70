package ui

import (
	"github.com/charmbracelet/lipgloss"
	dark "github.com/thiagokokada/dark-mode-go"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Dark palette - Tokyo Night
var darkColors = struct {
	Bg, Border, Text, TextDim, Accent, Yellow lipgloss.Color
}{
	Bg:      lipgloss.Color("#1a1b26"),
	Border:  lipgloss.Color("#414868"),
	Text:    lipgloss.Color("#c0caf5"),
	TextDim: lipgloss.Color("#787fa0"),
	Accent:  lipgloss.Color("#7aa2f7"),
	Yellow:  lipgloss.Color("#e0af68"),
}

// Light palette - Tokyo Night Light variant
var lightColors = struct {
	Bg, Border, Text, TextDim, Accent, Yellow lipgloss.Color
}{
	Bg:      lipgloss.Color("#d5d6db"),
	Border:  lipgloss.Color("#9699a3"),
	Text:    lipgloss.Color("#343b58"),
	TextDim: lipgloss.Color("#6a6d7c"),
	Accent:  lipgloss.Color("#34548a"),
	Yellow:  lipgloss.Color("#8f5e15"),
}

// Active color variables (set by InitTheme)
var (
	ColorBg      lipgloss.Color
	ColorBorder  lipgloss.Color
	ColorText    lipgloss.Color
	ColorTextDim lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorYellow  lipgloss.Color
)

// Styles rebuilt by InitTheme
var (
	searchBoxStyle lipgloss.Style
	itemStyle      lipgloss.Style
	selectedStyle  lipgloss.Style
	subtextStyle   lipgloss.Style
	statusStyle    lipgloss.Style
)

// ResolveTheme maps a configured theme name ("dark", "light", "system") to
// the palette to use. "system" asks the OS; on error dark wins.
func ResolveTheme(configured string) Theme {
	switch configured {
	case "dark":
		return ThemeDark
	case "light":
		return ThemeLight
	}
	isDark, err := dark.IsDarkMode()
	if err != nil || isDark {
		return ThemeDark
	}
	return ThemeLight
}

// InitTheme sets the active palette and rebuilds the shared styles.
// Must be called before any rendering.
func InitTheme(theme Theme) {
	c := darkColors
	if theme == ThemeLight {
		c = lightColors
	}

	ColorBg = c.Bg
	ColorBorder = c.Border
	ColorText = c.Text
	ColorTextDim = c.TextDim
	ColorAccent = c.Accent
	ColorYellow = c.Yellow

	searchBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
		Padding(0, 2).
		Background(ColorAccent).
		Foreground(ColorBg)

	subtextStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim)

	statusStyle = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Padding(0, 1)
}

func init() {
	// Sensible default so tests and plain renders work without main's setup
	InitTheme(ThemeDark)
}
