package components

import (
	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/tui/styles"
)

// Tracks lists the displayed music list: a playlist or search results.
type Tracks struct {
	List
}

// NewTracks creates a new Tracks component
func NewTracks() *Tracks {
	return &Tracks{}
}

// Name returns the display name of the selected track, or "".
func (t *Tracks) Name(list core.TrackList) string {
	i := t.Selected()
	if i >= len(list) {
		return ""
	}
	return list[i].DisplayName(i)
}

// Render renders the tracks panel. current is the playing track name and
// title labels the panel.
func (t *Tracks) Render(list core.TrackList, current, title string, width, height int, focused bool) string {
	names := list.Names()
	rows := make([]Row, len(names))
	for i, name := range names {
		rows[i] = Row{Text: name, Active: name == current && current != ""}
		if rows[i].Active {
			rows[i].Marker = styles.Playing.Render("♪")
		}
	}
	if title == "" {
		title = "Tracks"
	}
	body := t.renderRows(rows, width-4, height-4, focused)
	return panel(title, body, "No tracks", width, height, focused)
}
