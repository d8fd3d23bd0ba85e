package api

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"

	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
)

// RetOK is the ret value the backend uses for success.
const RetOK = "OK"

// SettingsPayload is the decoded /getsetting response.
type SettingsPayload struct {
	// Settings is the free-form settings object, without device_list.
	Settings core.Settings
	// Devices is populated only when the device list was requested.
	Devices []core.Device
}

func (p *SettingsPayload) UnmarshalJSON(data []byte) error {
	var settings core.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return err
	}
	var withDevices struct {
		DeviceList []core.Device `json:"device_list"`
	}
	if err := json.Unmarshal(data, &withDevices); err != nil {
		return errors.Wrap(err, "failed to decode device_list")
	}
	delete(settings, "device_list")
	p.Settings = settings
	p.Devices = withDevices.DeviceList
	return nil
}

// VersionResponse is the /getversion response.
type VersionResponse struct {
	Version string `json:"version"`
}

// VolumeResponse is the /getvolume and /setvolume response.
type VolumeResponse struct {
	Ret    string `json:"ret"`
	Volume *int   `json:"volume"`
}

// OK returns true if the backend reported success and a volume.
func (r VolumeResponse) OK() bool {
	return r.Ret == RetOK && r.Volume != nil
}

// Level returns the reported volume, or 0.
func (r VolumeResponse) Level() int {
	if r.Volume == nil {
		return 0
	}
	return *r.Volume
}

// PlayingResponse is the /playingmusic response.
type PlayingResponse struct {
	Ret         string  `json:"ret"`
	IsPlaying   bool    `json:"is_playing"`
	CurMusic    string  `json:"cur_music"`
	CurPlaylist string  `json:"cur_playlist"`
	Offset      float64 `json:"offset"`
	Duration    float64 `json:"duration"`
}

// OK returns true if the backend reported success.
func (r PlayingResponse) OK() bool {
	return r.Ret == RetOK
}

// State converts the response into a PlaybackState for device did.
func (r PlayingResponse) State(did string) core.PlaybackState {
	return core.PlaybackState{
		DeviceID: did,
		Music: &core.CurrentMusic{
			Name:     r.CurMusic,
			Playlist: r.CurPlaylist,
		},
		IsPlaying: r.IsPlaying,
		Progress: core.Progress{
			Offset:   r.Offset,
			Duration: r.Duration,
		},
	}
}

// MusicInfoResponse is the /musicinfo response. Tags vary by file format,
// so they are kept loose here and decoded by Info.
type MusicInfoResponse struct {
	Ret  string         `json:"ret"`
	Name string         `json:"name"`
	URL  string         `json:"url"`
	Tags map[string]any `json:"tags"`
}

// Info converts the response into a MusicInfo.
func (r MusicInfoResponse) Info() (core.MusicInfo, error) {
	info := core.MusicInfo{Name: r.Name, URL: r.URL}
	if len(r.Tags) == 0 {
		return info, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &info.Tags,
	})
	if err != nil {
		return info, err
	}
	if err := dec.Decode(r.Tags); err != nil {
		return info, errors.Mark(errors.Wrap(err, "failed to decode music tags"), apperrors.ErrBadResponse)
	}
	return info, nil
}

// SearchResult is the /searchmusic response. The backend answers with a
// track array; anything else leaves Tracks nil and IsList false.
type SearchResult struct {
	Tracks core.TrackList
	IsList bool
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		*r = SearchResult{}
		return nil
	}
	var tracks core.TrackList
	if err := json.Unmarshal(data, &tracks); err != nil {
		return err
	}
	if tracks == nil {
		tracks = core.TrackList{}
	}
	*r = SearchResult{Tracks: tracks, IsList: true}
	return nil
}

// CommandRequest is the /cmd body.
type CommandRequest struct {
	DID string `json:"did"`
	Cmd string `json:"cmd"`
}

// VolumeRequest is the /setvolume body.
type VolumeRequest struct {
	DID    string `json:"did"`
	Volume int    `json:"volume"`
}

// PlayMusicListRequest is the /playmusiclist body. An empty MusicName plays
// the list from its start.
type PlayMusicListRequest struct {
	DID       string `json:"did"`
	ListName  string `json:"listname"`
	MusicName string `json:"musicname"`
}
