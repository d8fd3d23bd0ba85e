package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultListNames are the "all tracks" aliases probed, in order, when
// choosing the list to show after loading the collection.
var DefaultListNames = []string{"所有歌曲", "全部"}

// Playlists maps playlist names to tracks and remembers the order in which
// the backend listed them.
type Playlists struct {
	names  []string
	tracks map[string]TrackList
}

// NewPlaylists returns an empty collection.
func NewPlaylists() Playlists {
	return Playlists{tracks: make(map[string]TrackList)}
}

// Set adds or replaces a playlist. New names are appended to the order.
// Empty names are ignored.
func (p *Playlists) Set(name string, tracks TrackList) {
	if name == "" {
		return
	}
	if p.tracks == nil {
		p.tracks = make(map[string]TrackList)
	}
	if _, ok := p.tracks[name]; !ok {
		p.names = append(p.names, name)
	}
	if tracks == nil {
		tracks = TrackList{}
	}
	p.tracks[name] = tracks
}

// Names returns playlist names in backend order.
func (p Playlists) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Get returns the tracks of the named playlist.
func (p Playlists) Get(name string) (TrackList, bool) {
	t, ok := p.tracks[name]
	return t, ok
}

// Has reports whether the named playlist exists.
func (p Playlists) Has(name string) bool {
	_, ok := p.tracks[name]
	return ok
}

// Len returns the number of playlists.
func (p Playlists) Len() int {
	return len(p.names)
}

// Last returns the name of the last playlist in backend order.
func (p Playlists) Last() (string, bool) {
	if len(p.names) == 0 {
		return "", false
	}
	return p.names[len(p.names)-1], true
}

// Find returns the playlist name matching name, compared case-insensitively
// when there is no exact match.
func (p Playlists) Find(name string) (string, bool) {
	if p.Has(name) {
		return name, true
	}
	for _, n := range p.names {
		if FoldEqual(n, name) {
			return n, true
		}
	}
	return "", false
}

// DefaultList picks the list shown after a load: the first of
// DefaultListNames present, otherwise the first playlist.
func (p Playlists) DefaultList() (string, TrackList, bool) {
	for _, name := range DefaultListNames {
		if t, ok := p.tracks[name]; ok {
			return name, t, true
		}
	}
	if len(p.names) == 0 {
		return "", nil, false
	}
	first := p.names[0]
	return first, p.tracks[first], true
}

// Clone returns a deep copy.
func (p Playlists) Clone() Playlists {
	out := Playlists{
		names:  p.Names(),
		tracks: make(map[string]TrackList, len(p.tracks)),
	}
	for k, v := range p.tracks {
		out.tracks[k] = v.Clone()
	}
	return out
}

// Fingerprint returns an order-preserving view used to detect changes.
func (p Playlists) Fingerprint() []NamedTrackList {
	out := make([]NamedTrackList, len(p.names))
	for i, n := range p.names {
		out[i] = NamedTrackList{Name: n, Tracks: p.tracks[n]}
	}
	return out
}

// NamedTrackList pairs a playlist name with its tracks.
type NamedTrackList struct {
	Name   string
	Tracks TrackList
}

// UnmarshalJSON decodes the /musiclist object keeping key order. Entries
// whose value is not an array are skipped.
func (p *Playlists) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("playlists: expected object, got %v", tok)
	}

	out := NewPlaylists()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}

		var tracks TrackList
		if err := json.Unmarshal(trimmed, &tracks); err != nil {
			return fmt.Errorf("playlist %q: %w", name, err)
		}
		out.Set(name, tracks)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalJSON writes the collection as an object in backend order.
func (p Playlists) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.tracks[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
