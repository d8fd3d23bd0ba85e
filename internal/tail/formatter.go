package tail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/cockroachdb/errors"
)

// Formatter renders events as single lines.
type Formatter struct {
	emoji     bool
	timestamp bool
	template  *template.Template
}

type FormatterOption func(*Formatter)

// WithEmoji prefixes lines with an emoji per event type. On by default.
func WithEmoji(on bool) FormatterOption {
	return func(f *Formatter) { f.emoji = on }
}

// WithTimestamp prefixes lines with the local wall-clock time.
func WithTimestamp(on bool) FormatterOption {
	return func(f *Formatter) { f.timestamp = on }
}

// ParseTemplate parses a custom line template. Fields are those of
// EventData, e.g. "{{.Time}} {{.Type}} {{.Track}}".
func ParseTemplate(tmpl string) (*template.Template, error) {
	t, err := template.New("format").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, errors.Wrap(err, "parse format")
	}
	return t, nil
}

// WithTemplate sets a parsed custom format template. Nil keeps the default
// line format.
func WithTemplate(t *template.Template) FormatterOption {
	return func(f *Formatter) { f.template = t }
}

func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{emoji: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders e with the custom template if one is set, otherwise as
// "[time] [emoji] description".
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// FormatJSON formats an event as one line of JSON.
func (f *Formatter) FormatJSON(e Event) (string, error) {
	b, err := json.Marshal(NewEventData(e))
	if err != nil {
		return "", errors.Wrap(err, "encode event")
	}
	return string(b), nil
}

func (f *Formatter) formatLine(e Event) string {
	parts := make([]string, 0, 3)
	if f.timestamp {
		parts = append(parts, e.Timestamp.Format(time.TimeOnly))
	}
	if f.emoji {
		parts = append(parts, kindOf(e.Type).emoji)
	}
	return strings.Join(append(parts, describe(e)), " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, NewEventData(e)); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

// EventData is the flattened view of an Event used by templates and JSON.
type EventData struct {
	Type      string    `json:"type"`
	Emoji     string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"-"`
	Device    string    `json:"did"`
	Track     string    `json:"track,omitempty"`
	Playlist  string    `json:"playlist,omitempty"`
	Previous  string    `json:"previous,omitempty"`
	Playing   bool      `json:"is_playing"`
	Volume    int       `json:"volume,omitempty"`
	Offset    float64   `json:"offset"`
	Duration  float64   `json:"duration"`
}

// NewEventData flattens e.
func NewEventData(e Event) EventData {
	data := EventData{
		Type:      e.Type.String(),
		Emoji:     kindOf(e.Type).emoji,
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format(time.TimeOnly),
	}
	if c := e.Current; c != nil {
		data.Device = c.DeviceID
		data.Track = c.TrackName()
		data.Playlist = playlistName(c)
		data.Playing = c.IsPlaying
		data.Offset = c.Progress.Offset
		data.Duration = c.Progress.Duration
		if c.Volume > 0 {
			data.Volume = c.Volume
		}
	}
	if e.Previous != nil {
		data.Previous = e.Previous.TrackName()
	}
	return data
}

func describe(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current.HasTrack() {
			if pl := playlistName(e.Current); pl != "" {
				return fmt.Sprintf("Now playing: %s [%s]", e.Current.TrackName(), pl)
			}
			return "Now playing: " + e.Current.TrackName()
		}
		return "Track changed"

	case EventTrackComplete:
		if e.Previous.HasTrack() {
			return "Finished: " + e.Previous.TrackName()
		}
		return "Track completed"

	case EventTrackSkip:
		if e.Previous.HasTrack() {
			return "Skipped: " + e.Previous.TrackName()
		}
		return "Track skipped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.Volume)
		}
		return "Volume changed"

	case EventPlaylistChange:
		if e.Current != nil {
			return "Playlist: " + playlistName(e.Current)
		}
		return "Playlist changed"

	default:
		return "Unknown event"
	}
}

type eventKind struct {
	name  string
	emoji string
}

var eventKinds = map[EventType]eventKind{
	EventTrackChange:    {"track_change", "🎵"},
	EventTrackComplete:  {"track_complete", "✅"},
	EventTrackSkip:      {"track_skip", "⏭️"},
	EventPause:          {"pause", "⏸️"},
	EventResume:         {"resume", "▶️"},
	EventVolumeChange:   {"volume_change", "🔊"},
	EventPlaylistChange: {"playlist_change", "📂"},
}

func kindOf(t EventType) eventKind {
	if k, ok := eventKinds[t]; ok {
		return k
	}
	return eventKind{"unknown", "❓"}
}

// String returns the snake_case event name used in JSON and templates.
func (t EventType) String() string {
	return kindOf(t).name
}
