package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tessro/soundscape/internal/core"
)

// GetSettings fetches the backend settings, optionally with the device list.
func (c *Client) GetSettings(ctx context.Context, needDeviceList bool) (*SettingsPayload, error) {
	q := url.Values{"need_device_list": {strconv.FormatBool(needDeviceList)}}
	var payload SettingsPayload
	if err := c.Get(ctx, "/getsetting", q, &payload); err != nil {
		return nil, err
	}
	if payload.Settings == nil {
		payload.Settings = core.Settings{}
	}
	return &payload, nil
}

// SaveSettings persists the settings object as given.
func (c *Client) SaveSettings(ctx context.Context, settings core.Settings) error {
	return c.Post(ctx, "/savesetting", settings, nil)
}

// GetVersion fetches the backend version string.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	var resp VersionResponse
	if err := c.Get(ctx, "/getversion", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// GetVolume fetches a device's volume.
func (c *Client) GetVolume(ctx context.Context, did string) (VolumeResponse, error) {
	var resp VolumeResponse
	err := c.Get(ctx, "/getvolume", url.Values{"did": {did}}, &resp)
	return resp, err
}

// SetVolume sets a device's volume (0-100).
func (c *Client) SetVolume(ctx context.Context, did string, volume int) (VolumeResponse, error) {
	var resp VolumeResponse
	err := c.Post(ctx, "/setvolume", VolumeRequest{DID: did, Volume: volume}, &resp)
	return resp, err
}

// GetMusicList fetches every playlist with its tracks.
func (c *Client) GetMusicList(ctx context.Context) (core.Playlists, error) {
	lists := core.NewPlaylists()
	if err := c.Get(ctx, "/musiclist", nil, &lists); err != nil {
		return core.Playlists{}, err
	}
	return lists, nil
}

// SearchMusic searches track names for a substring.
func (c *Client) SearchMusic(ctx context.Context, name string) (SearchResult, error) {
	var result SearchResult
	err := c.Get(ctx, "/searchmusic", url.Values{"name": {name}}, &result)
	return result, err
}

// GetCurrentPlaylist fetches the name of the playlist a device is playing from.
func (c *Client) GetCurrentPlaylist(ctx context.Context, did string) (string, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/curplaylist", url.Values{"did": {did}}, &raw); err != nil {
		return "", err
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, nil
	}
	var obj struct {
		CurPlaylist string `json:"cur_playlist"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.CurPlaylist != "" {
		return obj.CurPlaylist, nil
	}
	return strings.TrimSpace(string(raw)), nil
}

// PlayMusicList starts a playlist on a device. An empty musicName starts
// the list from the top.
func (c *Client) PlayMusicList(ctx context.Context, did, listName, musicName string) error {
	return c.Post(ctx, "/playmusiclist", PlayMusicListRequest{
		DID:       did,
		ListName:  listName,
		MusicName: musicName,
	}, nil)
}

// GetPlayingMusic fetches what a device is playing.
func (c *Client) GetPlayingMusic(ctx context.Context, did string) (PlayingResponse, error) {
	var resp PlayingResponse
	err := c.Get(ctx, "/playingmusic", url.Values{"did": {did}}, &resp)
	return resp, err
}

// GetMusicInfo fetches a track's URL and, when withTags is set, its tags.
func (c *Client) GetMusicInfo(ctx context.Context, name string, withTags bool) (core.MusicInfo, error) {
	if strings.TrimSpace(name) == "" {
		return core.MusicInfo{}, errors.New("track name cannot be empty")
	}
	q := url.Values{
		"musictag": {strconv.FormatBool(withTags)},
		"name":     {name},
	}
	var resp MusicInfoResponse
	if err := c.Get(ctx, "/musicinfo", q, &resp); err != nil {
		return core.MusicInfo{}, err
	}
	if resp.Ret != "" && resp.Ret != RetOK {
		return core.MusicInfo{}, errors.Newf("music info for %q: %s", name, resp.Ret)
	}
	return resp.Info()
}

// SendCommand sends a command token to a device over the generic /cmd channel.
func (c *Client) SendCommand(ctx context.Context, did, cmd string) error {
	return c.Post(ctx, "/cmd", CommandRequest{DID: did, Cmd: cmd}, nil)
}
