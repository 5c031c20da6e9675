package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/sneaker/internal/config"
	"github.com/bamsammich/sneaker/internal/manifest"
)

// Catppuccin Mocha palette, mutable so config can override.
var (
	ColorCopy   = lipgloss.Color("#a6e3a1")
	ColorMove   = lipgloss.Color("#89b4fa")
	ColorDelete = lipgloss.Color("#f38ba8")
	ColorError  = lipgloss.Color("#f38ba8")
	ColorWarn   = lipgloss.Color("#f9e2af")
	ColorMuted  = lipgloss.Color("#5a6278")
	ColorBright = lipgloss.Color("#cdd6f4")
)

var (
	styleCopy   lipgloss.Style
	styleMove   lipgloss.Style
	styleDelete lipgloss.Style
	styleError  lipgloss.Style
	styleWarn   lipgloss.Style
	styleMuted  lipgloss.Style
	styleHeader lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleCopy = lipgloss.NewStyle().Foreground(ColorCopy).Bold(true)
	styleMove = lipgloss.NewStyle().Foreground(ColorMove).Bold(true)
	styleDelete = lipgloss.NewStyle().Foreground(ColorDelete).Bold(true)
	styleError = lipgloss.NewStyle().Foreground(ColorError)
	styleWarn = lipgloss.NewStyle().Foreground(ColorWarn)
	styleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	styleHeader = lipgloss.NewStyle().Foreground(ColorBright).Bold(true)
}

// ApplyTheme overrides colors from a config ThemeConfig and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	if tc.Copy != nil {
		ColorCopy = lipgloss.Color(*tc.Copy)
	}
	if tc.Move != nil {
		ColorMove = lipgloss.Color(*tc.Move)
	}
	if tc.Delete != nil {
		ColorDelete = lipgloss.Color(*tc.Delete)
	}
	if tc.Error != nil {
		ColorError = lipgloss.Color(*tc.Error)
	}
	if tc.Muted != nil {
		ColorMuted = lipgloss.Color(*tc.Muted)
	}
	rebuildStyles()
}

func actionStyle(a manifest.Action) lipgloss.Style {
	switch a {
	case manifest.Copy:
		return styleCopy
	case manifest.Move:
		return styleMove
	case manifest.Delete:
		return styleDelete
	default:
		return styleMuted
	}
}

// paint renders s with st when color is enabled.
func paint(st lipgloss.Style, s string, color bool) string {
	if !color {
		return s
	}
	return st.Render(s)
}
