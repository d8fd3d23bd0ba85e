package core

// Progress is the playback position reported by the backend, in seconds.
type Progress struct {
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
}

// Fraction returns Offset/Duration clamped to [0,1]. A zero duration gives 0.
func (p Progress) Fraction() float64 {
	if p.Duration <= 0 {
		return 0
	}
	f := p.Offset / p.Duration
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Percent returns Fraction as a percentage (0-100).
func (p Progress) Percent() float64 {
	return p.Fraction() * 100
}

// CurrentMusic is the track the backend reports as current.
type CurrentMusic struct {
	Name     string `json:"name"`
	Playlist string `json:"playlist"`
}

// PlaybackState is one poll of a device's playback.
type PlaybackState struct {
	DeviceID  string        `json:"did"`
	Music     *CurrentMusic `json:"current_music"`
	IsPlaying bool          `json:"is_playing"`
	Progress  Progress      `json:"progress"`
	Volume    int           `json:"volume"`
}

// HasTrack returns true if there is a current track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Music != nil && s.Music.Name != ""
}

// TrackName returns the current track name or "".
func (s *PlaybackState) TrackName() string {
	if !s.HasTrack() {
		return ""
	}
	return s.Music.Name
}

// MusicTags holds the metadata the backend extracts from a file.
type MusicTags struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Year   string `json:"year,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

// MusicInfo describes one track as served by /musicinfo.
type MusicInfo struct {
	Name string    `json:"name"`
	URL  string    `json:"url"`
	Tags MusicTags `json:"tags"`
}

// Artist returns the tagged artist, or "".
func (m *MusicInfo) Artist() string {
	if m == nil {
		return ""
	}
	return m.Tags.Artist
}
