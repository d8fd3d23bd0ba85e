package components

import (
	"fmt"

	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/tui/styles"
)

// Playlists lists the playlist names.
type Playlists struct {
	List
}

// NewPlaylists creates a new Playlists component
func NewPlaylists() *Playlists {
	return &Playlists{}
}

// Name returns the selected playlist name, or "".
func (p *Playlists) Name(lists core.Playlists) string {
	names := lists.Names()
	if i := p.Selected(); i < len(names) {
		return names[i]
	}
	return ""
}

// Focus moves the selection onto name if present.
func (p *Playlists) Focus(lists core.Playlists, name string) {
	for i, n := range lists.Names() {
		if n == name {
			p.Select(i, lists.Len())
			return
		}
	}
}

// Render renders the playlists panel. selected is the active playlist.
func (p *Playlists) Render(lists core.Playlists, selected string, width, height int, focused bool) string {
	names := lists.Names()
	rows := make([]Row, len(names))
	for i, name := range names {
		tracks, _ := lists.Get(name)
		rows[i] = Row{
			Text:   name,
			Marker: styles.Dim.Render(fmt.Sprintf("%d", len(tracks))),
			Active: name == selected,
		}
	}
	body := p.renderRows(rows, width-4, height-4, focused)
	return panel("Playlists", body, "No playlists", width, height, focused)
}
