// Package player is the command gateway: it turns playback intents into
// backend calls.
package player

import (
	"context"

	"github.com/tessro/soundscape/internal/api"
	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
)

// Player sends commands for a device to the backend. It keeps no state.
type Player struct {
	client *api.Client
}

// New creates a new Player.
func New(c *api.Client) *Player {
	return &Player{client: c}
}

// Client returns the underlying API client.
func (p *Player) Client() *api.Client {
	return p.client
}

// SendCommand sends a raw command token to a device.
func (p *Player) SendCommand(ctx context.Context, did, cmd string) error {
	if did == "" {
		return apperrors.ErrNoDevice
	}
	return p.client.SendCommand(ctx, did, cmd)
}

// TogglePlayPause stops playback. The backend has no resume command;
// resuming is done with PlayMusicList.
func (p *Player) TogglePlayPause(ctx context.Context, did string) error {
	return p.SendCommand(ctx, did, CmdStop)
}

// PlayNext skips to the next track.
func (p *Player) PlayNext(ctx context.Context, did string) error {
	return p.SendCommand(ctx, did, CmdNext)
}

// PlayPrevious goes back to the previous track.
func (p *Player) PlayPrevious(ctx context.Context, did string) error {
	return p.SendCommand(ctx, did, CmdPrevious)
}

// RefreshList asks the backend to rescan its music library.
func (p *Player) RefreshList(ctx context.Context, did string) error {
	return p.SendCommand(ctx, did, CmdRefreshList)
}

// SetShuffle turns shuffle on or off.
func (p *Player) SetShuffle(ctx context.Context, did string, on bool) error {
	return p.SendCommand(ctx, did, ShuffleCommand(on))
}

// SetLoopMode sets the loop mode.
func (p *Player) SetLoopMode(ctx context.Context, did string, mode core.LoopMode) error {
	return p.SendCommand(ctx, did, LoopCommand(mode))
}

// SetPlayMode switches the device's play mode.
func (p *Player) SetPlayMode(ctx context.Context, did string, mode core.PlayMode) error {
	cmd, err := PlayModeCommand(mode)
	if err != nil {
		return err
	}
	return p.SendCommand(ctx, did, cmd)
}

// Settings fetches the backend settings, with the device list if asked.
func (p *Player) Settings(ctx context.Context, withDevices bool) (*api.SettingsPayload, error) {
	return p.client.GetSettings(ctx, withDevices)
}

// Devices returns the devices the backend knows about.
func (p *Player) Devices(ctx context.Context) ([]core.Device, error) {
	payload, err := p.client.GetSettings(ctx, true)
	if err != nil {
		return nil, err
	}
	return payload.Devices, nil
}

// SaveSettings persists the settings object.
func (p *Player) SaveSettings(ctx context.Context, settings core.Settings) error {
	return p.client.SaveSettings(ctx, settings)
}

// Version returns the backend version.
func (p *Player) Version(ctx context.Context) (string, error) {
	return p.client.GetVersion(ctx)
}

// Volume fetches a device's volume.
func (p *Player) Volume(ctx context.Context, did string) (api.VolumeResponse, error) {
	if did == "" {
		return api.VolumeResponse{}, apperrors.ErrNoDevice
	}
	return p.client.GetVolume(ctx, did)
}

// SetVolume sets a device's volume, clamped to 0-100.
func (p *Player) SetVolume(ctx context.Context, did string, volume int) (api.VolumeResponse, error) {
	if did == "" {
		return api.VolumeResponse{}, apperrors.ErrNoDevice
	}
	return p.client.SetVolume(ctx, did, ClampVolume(volume))
}

// MusicList fetches every playlist.
func (p *Player) MusicList(ctx context.Context) (core.Playlists, error) {
	return p.client.GetMusicList(ctx)
}

// Search searches track names for a substring.
func (p *Player) Search(ctx context.Context, term string) (api.SearchResult, error) {
	return p.client.SearchMusic(ctx, term)
}

// CurrentPlaylist returns the playlist a device is playing from.
func (p *Player) CurrentPlaylist(ctx context.Context, did string) (string, error) {
	if did == "" {
		return "", apperrors.ErrNoDevice
	}
	return p.client.GetCurrentPlaylist(ctx, did)
}

// PlayMusicList plays track from playlist. An empty track plays the
// playlist from its start.
func (p *Player) PlayMusicList(ctx context.Context, did, playlist, track string) error {
	if did == "" {
		return apperrors.ErrNoDevice
	}
	return p.client.PlayMusicList(ctx, did, playlist, track)
}

// PlayingMusic fetches what a device is playing.
func (p *Player) PlayingMusic(ctx context.Context, did string) (api.PlayingResponse, error) {
	if did == "" {
		return api.PlayingResponse{}, apperrors.ErrNoDevice
	}
	return p.client.GetPlayingMusic(ctx, did)
}

// MusicInfo fetches a track's URL and tags.
func (p *Player) MusicInfo(ctx context.Context, name string) (core.MusicInfo, error) {
	return p.client.GetMusicInfo(ctx, name, true)
}

// ClampVolume limits v to 0-100.
func ClampVolume(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
