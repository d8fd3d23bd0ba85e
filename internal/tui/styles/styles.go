// Package styles holds the dashboard palette and shared lipgloss styles.
package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// adaptive pairs a Latte (light) colour with a Mocha (dark) one.
func adaptive(light, dark catppuccin.Color) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light.Hex, Dark: dark.Hex}
}

// Colors
var (
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Accent    lipgloss.TerminalColor

	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Info    lipgloss.TerminalColor

	Border    lipgloss.TerminalColor
	Selection lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	TextDim   lipgloss.TerminalColor
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	ErrorText lipgloss.Style
	Notice    lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
	Banner        lipgloss.Style
)

func init() {
	SetTheme("auto")
}

// SetTheme selects the palette: "dark" forces Mocha, "light" forces Latte,
// anything else adapts to the terminal background.
func SetTheme(theme string) {
	color := func(light, dark catppuccin.Color) lipgloss.TerminalColor {
		switch theme {
		case "dark":
			return lipgloss.Color(dark.Hex)
		case "light":
			return lipgloss.Color(light.Hex)
		}
		return adaptive(light, dark)
	}
	l, d := catppuccin.Latte, catppuccin.Mocha

	Primary = color(l.Mauve(), d.Mauve())
	Secondary = color(l.Teal(), d.Teal())
	Accent = color(l.Peach(), d.Peach())

	Success = color(l.Green(), d.Green())
	Warning = color(l.Yellow(), d.Yellow())
	Error = color(l.Red(), d.Red())
	Info = color(l.Blue(), d.Blue())

	Border = color(l.Surface2(), d.Surface2())
	Selection = color(l.Surface0(), d.Surface0())
	Text = color(l.Text(), d.Text())
	TextMuted = color(l.Subtext0(), d.Subtext0())
	TextDim = color(l.Overlay0(), d.Overlay0())

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Notice = lipgloss.NewStyle().Foreground(Info)
	Selected = lipgloss.NewStyle().Background(Selection)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
	Banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(Error).
		Padding(0, 1)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Truncate shortens s to fit width terminal cells, counting wide runes as
// two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
