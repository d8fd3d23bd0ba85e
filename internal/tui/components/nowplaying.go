package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/soundscape/internal/store"
	"github.com/tessro/soundscape/internal/tui/styles"
)

// NowPlaying displays the current track and the playback controls' state
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(st store.State, width, height int, focused bool) string {
	body := ""
	if st.TrackName() != "" {
		body = n.renderTrack(st, width-4)
	} else if st.HasDevice() {
		body = lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render("Nothing playing"),
			"",
			n.renderModes(st),
		)
	}

	empty := "Select a device"
	return panel("Now Playing", body, empty, width, height, focused)
}

func (n *NowPlaying) renderTrack(st store.State, width int) string {
	icon := styles.StatusIcon(st.IsPlaying)
	title := styles.Title.Render(styles.Truncate(st.TrackName(), width-2))

	var details []string
	if info := st.MusicInfo; info != nil && info.Name == st.TrackName() {
		if info.Tags.Artist != "" {
			details = append(details, styles.Subtitle.Render(styles.Truncate(info.Tags.Artist, width-2)))
		}
		if info.Tags.Album != "" {
			details = append(details, styles.Dim.Render(styles.Truncate(info.Tags.Album, width-2)))
		}
	}
	if st.CurrentMusic != nil && st.CurrentMusic.Playlist != "" {
		details = append(details, styles.Dim.Render(styles.Truncate("from "+st.CurrentMusic.Playlist, width-2)))
	}

	progressWidth := width - 14 // Account for times on either side
	if progressWidth < 10 {
		progressWidth = 10
	}
	progress := fmt.Sprintf("%s %s %s",
		FormatSeconds(st.Progress.Offset),
		styles.ProgressBar(st.Progress.Percent(), progressWidth),
		FormatSeconds(st.Progress.Duration),
	)

	lines := []string{icon + " " + title}
	for _, d := range details {
		lines = append(lines, "  "+d)
	}
	lines = append(lines, "", progress, "", n.renderModes(st))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderModes shows volume, shuffle, loop and play mode. Values awaiting
// confirmation are dimmed.
func (n *NowPlaying) renderModes(st store.State) string {
	vol := fmt.Sprintf("🔊 %d%%", st.Volume)
	if st.VolumePending {
		vol = styles.Dim.Render(vol)
	} else {
		vol = styles.Muted.Render(vol)
	}

	flag := func(label string, on bool) string {
		if on {
			return styles.Highlight.Render(label)
		}
		return styles.Dim.Render(label)
	}

	parts := []string{
		vol,
		flag("shuffle", st.Shuffle),
		flag("loop:"+st.Loop.String(), st.Loop.String() != "off"),
		styles.Muted.Render(st.PlayMode.Label()),
	}
	if dev, ok := st.Device(); ok {
		parts = append(parts, styles.Dim.Render(dev.Label()))
	}
	return strings.Join(parts, "  ")
}

// FormatSeconds formats seconds as m:ss or h:mm:ss.
func FormatSeconds(seconds float64) string {
	s := int(seconds + 0.5)
	if s < 0 {
		s = 0
	}
	h, m := s/3600, (s%3600)/60
	s %= 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
