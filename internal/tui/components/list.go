package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/soundscape/internal/tui/styles"
)

// List is a scrollable, selectable column of names. Playlists, Tracks and
// Devices all render through it.
type List struct {
	selected int
	offset   int
}

// Selected returns the selected index.
func (l *List) Selected() int {
	return l.selected
}

// Select moves the selection to i, clamped to n items.
func (l *List) Select(i, n int) {
	l.selected = i
	l.clamp(n)
}

// Move moves the selection by delta within n items.
func (l *List) Move(delta, n int) {
	l.Select(l.selected+delta, n)
}

// Reset moves back to the top.
func (l *List) Reset() {
	l.selected = 0
	l.offset = 0
}

func (l *List) clamp(n int) {
	if l.selected >= n {
		l.selected = n - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// window returns the visible range for height lines, scrolling to keep the
// selection on screen.
func (l *List) window(n, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	l.clamp(n)
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+height {
		l.offset = l.selected - height + 1
	}
	if l.offset > n-height {
		l.offset = max(n-height, 0)
	}
	return l.offset, min(l.offset+height, n)
}

// Row is one line of a List.
type Row struct {
	Text   string
	Marker string // shown after the text, e.g. a playing dot
	Active bool   // rendered highlighted even when not selected
}

// renderRows renders rows into a panel body of width x height.
func (l *List) renderRows(rows []Row, width, height int, focused bool) string {
	if len(rows) == 0 {
		return ""
	}

	body := height
	start, end := l.window(len(rows), body-1)
	lines := make([]string, 0, end-start+1)

	for i := start; i < end; i++ {
		row := rows[i]

		selector := "  "
		if focused && i == l.selected {
			selector = "▸ "
		}

		text := styles.Truncate(row.Text, width-lipgloss.Width(selector)-lipgloss.Width(row.Marker)-1)
		switch {
		case focused && i == l.selected:
			text = styles.Highlight.Render(text)
		case row.Active:
			text = styles.Playing.Render(text)
		}

		line := selector + text
		if row.Marker != "" {
			line += " " + row.Marker
		}
		lines = append(lines, line)
	}

	if end < len(rows) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ... and %d more", len(rows)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// panel wraps a titled body in a bordered box.
func panel(title, body, empty string, width, height int, focused bool) string {
	if body == "" {
		body = styles.Muted.Render(empty)
	}
	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.PanelTitle(title, focused),
			"",
			body,
		))
}
