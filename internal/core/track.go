package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TrackKind distinguishes the two shapes the backend uses for tracks.
type TrackKind int

const (
	// TrackBare is a track sent as a plain string.
	TrackBare TrackKind = iota
	// TrackTagged is a track sent as an object.
	TrackTagged
)

// Track is either Bare(name) or Tagged(name, altName, title).
type Track struct {
	Kind    TrackKind
	Name    string
	AltName string
	Title   string
}

// BareTrack returns a track that is only a name.
func BareTrack(name string) Track {
	return Track{Kind: TrackBare, Name: name}
}

// TaggedTrack returns an object-shaped track.
func TaggedTrack(name, altName, title string) Track {
	return Track{Kind: TrackTagged, Name: name, AltName: altName, Title: title}
}

// DisplayName resolves the name used to show and play the track. index is
// the track's zero-based position in its list; it is only used when the
// track carries no usable name.
//
// Two tracks that resolve to the same display name cannot be told apart by
// play or select actions.
func (t Track) DisplayName(index int) string {
	if t.Kind == TrackBare {
		return t.Name
	}
	switch {
	case t.Name != "":
		return t.Name
	case t.AltName != "":
		return t.AltName
	case t.Title != "":
		return t.Title
	default:
		return fmt.Sprintf("Track %d", index+1)
	}
}

type taggedTrackJSON struct {
	Name      string `json:"name,omitempty"`
	MusicName string `json:"musicname,omitempty"`
	Title     string `json:"title,omitempty"`
}

// UnmarshalJSON accepts either a JSON string or an object.
func (t *Track) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*t = BareTrack(name)
		return nil
	}

	var obj taggedTrackJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("track must be a string or an object: %w", err)
	}
	*t = TaggedTrack(obj.Name, obj.MusicName, obj.Title)
	return nil
}

// MarshalJSON writes the track back in the shape it arrived in.
func (t Track) MarshalJSON() ([]byte, error) {
	if t.Kind == TrackBare {
		return json.Marshal(t.Name)
	}
	return json.Marshal(taggedTrackJSON{Name: t.Name, MusicName: t.AltName, Title: t.Title})
}

// TrackList is an ordered list of tracks.
type TrackList []Track

// Names returns the resolved display name of every track.
func (l TrackList) Names() []string {
	names := make([]string, len(l))
	for i, t := range l {
		names[i] = t.DisplayName(i)
	}
	return names
}

// IndexOf returns the position of the first track whose display name is
// name, or -1.
func (l TrackList) IndexOf(name string) int {
	for i, t := range l {
		if t.DisplayName(i) == name {
			return i
		}
	}
	return -1
}

// Find returns the display name of the first track matching name, compared
// case-insensitively.
func (l TrackList) Find(name string) (string, bool) {
	if i := l.IndexOf(name); i >= 0 {
		return name, true
	}
	for i, t := range l {
		if n := t.DisplayName(i); FoldEqual(n, name) {
			return n, true
		}
	}
	return "", false
}

// Clone returns a copy that shares no backing array with l.
func (l TrackList) Clone() TrackList {
	if l == nil {
		return nil
	}
	out := make(TrackList, len(l))
	copy(out, l)
	return out
}
