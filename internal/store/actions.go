package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/soundscape/internal/api"
	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
)

var (
	errNoDevice       = apperrors.ErrNoDevice
	errNoCurrentTrack = apperrors.ErrNoCurrentTrack
)

// Bootstrap runs the startup sequence: devices and the playlist collection,
// then volume and playback state for the selected device.
func (s *Store) Bootstrap(ctx context.Context) error {
	devErr := s.LoadDevices(ctx)
	listErr := s.LoadMusicList(ctx)
	if s.SelectedDevice() != "" {
		_ = s.LoadVolume(ctx)
		_ = s.LoadCurrentMusic(ctx)
	}
	return errors.Join(devErr, listErr)
}

// LoadDevices fetches the device list. It selects the first device when none
// is selected or requested and resynchronizes the play mode from the selected
// device's play_type. A selection missing from the list is cleared and
// reported. Failures set the banner.
func (s *Store) LoadDevices(ctx context.Context) error {
	s.mu.Lock()
	s.devicesSeq++
	seq := s.devicesSeq
	modeSeq := s.playMode.Begin()
	s.mu.Unlock()

	done := s.startLoading()
	payload, err := s.backend.Settings(ctx, true)
	done()
	if err != nil {
		s.fail(Persistent, "loadDevices", "Failed to load devices: ", err)
		return errors.Wrap(err, "failed to load devices")
	}

	s.mu.Lock()
	if seq < s.devicesApplied {
		s.mu.Unlock()
		s.log.Debug().Uint64("seq", seq).Msg("discarding stale device list")
		return nil
	}
	s.devicesApplied = seq
	s.state.Devices = payload.Devices

	prev := s.state.SelectedDevice
	want := prev
	if want == "" {
		want = s.state.MissingDevice
	}
	var current core.Device
	var found bool
	if want == "" {
		if len(payload.Devices) > 0 {
			current, found = payload.Devices[0], true
		}
	} else {
		// A preselected name resolves to its did.
		current, found = core.FindDevice(payload.Devices, want)
	}
	missing := ""
	if found {
		s.state.SelectedDevice = current.DID
		s.state.MissingDevice = ""
		if mode, ok := current.PlayMode(); ok {
			s.playMode.Confirm(modeSeq, mode)
		}
	} else if want != "" {
		// Never send an unresolved name to the backend as a did.
		s.state.SelectedDevice = ""
		s.state.MissingDevice = want
		missing = prev
	}
	selected := s.state.SelectedDevice
	if selected != prev {
		s.resetPlaybackLocked()
	}
	s.mu.Unlock()

	if missing != "" {
		s.report(Report{
			Channel: Persistent,
			Op:      "loadDevices",
			Message: fmt.Sprintf("Device %q not found", missing),
			Err:     apperrors.ErrDeviceNotFound,
		})
	}
	s.notify()
	if selected != prev {
		s.deviceChanged(selected)
	}
	return nil
}

// SetDevice selects a device and reloads the device list to pick up its
// play mode. An empty id deselects.
func (s *Store) SetDevice(ctx context.Context, id string) error {
	s.mu.Lock()
	prev := s.state.SelectedDevice
	s.state.SelectedDevice = id
	s.state.MissingDevice = ""
	if prev != id {
		s.resetPlaybackLocked()
	}
	s.mu.Unlock()

	s.notify()
	if prev != id {
		s.deviceChanged(id)
	}
	if id == "" {
		return nil
	}
	return s.LoadDevices(ctx)
}

// LoadMusicList fetches the playlist collection and shows the default list.
// Failures are diagnostic only.
func (s *Store) LoadMusicList(ctx context.Context) error {
	lists, err := s.backend.MusicList(ctx)
	if err != nil {
		s.fail(DiagnosticOnly, "loadMusicList", "Failed to load music list: ", err)
		return errors.Wrap(err, "failed to load music list")
	}

	hash, hashErr := hashstructure.Hash(lists.Fingerprint(), hashstructure.FormatV2, nil)

	s.mu.Lock()
	if hashErr != nil || hash != s.listsHash || s.state.PlaylistsVersion == 0 {
		s.state.Playlists = lists
		s.state.PlaylistsVersion++
		s.listsHash = hash
	}
	if _, tracks, ok := s.state.Playlists.DefaultList(); ok {
		s.state.MusicList = tracks.Clone()
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// RefreshPlaylists reloads the playlist collection.
func (s *Store) RefreshPlaylists(ctx context.Context) error {
	return s.LoadMusicList(ctx)
}

// SetPlaylist selects a playlist. A known name replaces both the current
// playlist and the displayed list; an unknown name leaves them as they are.
func (s *Store) SetPlaylist(name string) {
	s.mu.Lock()
	s.state.SelectedPlaylist = name
	if tracks, ok := s.state.Playlists.Get(name); ok && name != "" {
		s.state.CurrentPlaylist = tracks.Clone()
		s.state.MusicList = tracks.Clone()
	}
	s.mu.Unlock()
	s.notify()
}

// LoadCurrentMusic fetches playback state for the selected device. It does
// nothing without a device. Failures are diagnostic only.
func (s *Store) LoadCurrentMusic(ctx context.Context) error {
	s.mu.Lock()
	did := s.state.SelectedDevice
	if did == "" {
		s.mu.Unlock()
		return nil
	}
	s.currentSeq++
	seq := s.currentSeq
	s.mu.Unlock()

	resp, err := s.backend.PlayingMusic(ctx, did)
	if err != nil {
		s.fail(DiagnosticOnly, "loadCurrentMusic", "Failed to load current music: ", err)
		return errors.Wrap(err, "failed to load current music")
	}
	if !resp.OK() {
		s.log.Debug().Str("ret", resp.Ret).Msg("playingmusic not ok")
		return nil
	}

	s.mu.Lock()
	if seq < s.currentApplied || did != s.state.SelectedDevice {
		s.mu.Unlock()
		s.log.Debug().Uint64("seq", seq).Msg("discarding stale playback state")
		return nil
	}
	s.currentApplied = seq
	wasPlaying := s.state.IsPlaying
	state := resp.State(did)
	s.state.CurrentMusic = state.Music
	s.state.IsPlaying = state.IsPlaying
	s.state.Progress = state.Progress
	started := !wasPlaying && state.IsPlaying
	s.mu.Unlock()

	s.notify()
	if started {
		s.playStarted()
	}
	return nil
}

// LoadVolume fetches the selected device's volume. It is applied only when
// the backend answers OK. Failures are diagnostic only.
func (s *Store) LoadVolume(ctx context.Context) error {
	s.mu.Lock()
	did := s.state.SelectedDevice
	if did == "" {
		s.mu.Unlock()
		return nil
	}
	seq := s.volume.Begin()
	s.mu.Unlock()

	resp, err := s.backend.Volume(ctx, did)
	if err != nil {
		s.fail(DiagnosticOnly, "loadVolume", "Failed to load volume: ", err)
		return errors.Wrap(err, "failed to load volume")
	}
	if !resp.OK() {
		return nil
	}

	s.mu.Lock()
	applied := s.volume.Confirm(seq, resp.Level())
	s.mu.Unlock()
	if applied {
		s.notify()
	}
	return nil
}

// SearchMusic searches track names. A list response replaces the displayed
// list. The result is returned as received; on failure it is empty.
func (s *Store) SearchMusic(ctx context.Context, term string) (api.SearchResult, error) {
	done := s.startLoading()
	defer done()

	result, err := s.backend.Search(ctx, term)
	if err != nil {
		s.fail(Persistent, "searchMusic", "Failed to search: ", err)
		return api.SearchResult{Tracks: core.TrackList{}}, errors.Wrap(err, "search failed")
	}
	if result.IsList {
		s.mu.Lock()
		s.state.MusicList = result.Tracks.Clone()
		s.mu.Unlock()
	}
	return result, nil
}

// SubmitSearch is the search button: a blank term is ignored.
func (s *Store) SubmitSearch(ctx context.Context, term string) (api.SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return api.SearchResult{}, nil
	}
	return s.SearchMusic(ctx, term)
}

// SearchChanged handles incremental edits of the search box: clearing it
// restores the unfiltered list.
func (s *Store) SearchChanged(ctx context.Context, term string) error {
	if term != "" {
		return nil
	}
	return s.RefreshMusicList(ctx)
}

// RefreshMusicList asks the backend to rescan, then reloads the collection.
// Both outcomes are reported as transient notices.
func (s *Store) RefreshMusicList(ctx context.Context) error {
	did, err := s.requireDevice("refreshMusicList", Transient)
	if err != nil {
		return err
	}

	if err := s.backend.RefreshList(ctx, did); err != nil {
		s.fail(Transient, "refreshMusicList", "Refresh failed: ", err)
		return errors.Wrap(err, "refresh failed")
	}
	if err := s.LoadMusicList(ctx); err != nil {
		s.fail(Transient, "refreshMusicList", "Refresh failed: ", err)
		return err
	}
	s.report(Report{Channel: Transient, Op: "refreshMusicList", Message: msgRefreshed, Success: true})
	return nil
}

// LoadSettings fetches the backend settings.
func (s *Store) LoadSettings(ctx context.Context) (core.Settings, error) {
	done := s.startLoading()
	defer done()

	payload, err := s.backend.Settings(ctx, false)
	if err != nil {
		s.fail(Persistent, "loadSettings", "Failed to load settings: ", err)
		return nil, errors.Wrap(err, "failed to load settings")
	}

	s.mu.Lock()
	s.state.Settings = payload.Settings.Clone()
	s.mu.Unlock()
	return payload.Settings, nil
}

// SaveSettings persists settings. On success the local copy becomes the
// submitted object, whatever the backend answered.
func (s *Store) SaveSettings(ctx context.Context, settings core.Settings) error {
	done := s.startLoading()
	defer done()

	if err := s.backend.SaveSettings(ctx, settings); err != nil {
		s.fail(Persistent, "saveSettings", "Failed to save settings: ", err)
		return errors.Wrap(err, "failed to save settings")
	}

	s.mu.Lock()
	s.state.Settings = settings.Clone()
	s.mu.Unlock()
	s.report(Report{Channel: Transient, Op: "saveSettings", Message: msgSettingsSaved, Success: true})
	return nil
}

// GetVersion fetches the backend version.
func (s *Store) GetVersion(ctx context.Context) (string, error) {
	v, err := s.backend.Version(ctx)
	if err != nil {
		s.fail(Persistent, "getVersion", "Failed to get version: ", err)
		return "", errors.Wrap(err, "failed to get version")
	}
	s.mu.Lock()
	s.state.Version = v
	s.mu.Unlock()
	s.notify()
	return v, nil
}

// LoadMusicInfo fetches URL and tags for name, or for the current track when
// name is empty.
func (s *Store) LoadMusicInfo(ctx context.Context, name string) (core.MusicInfo, error) {
	if name == "" {
		s.mu.RLock()
		if s.state.CurrentMusic != nil {
			name = s.state.CurrentMusic.Name
		}
		s.mu.RUnlock()
	}
	if name == "" {
		s.report(Report{Channel: Persistent, Op: "loadMusicInfo", Message: msgNoTrack, Err: errNoCurrentTrack})
		return core.MusicInfo{}, errNoCurrentTrack
	}

	info, err := s.backend.MusicInfo(ctx, name)
	if err != nil {
		s.fail(Persistent, "loadMusicInfo", "Failed to load music info: ", err)
		return core.MusicInfo{}, errors.Wrap(err, "failed to load music info")
	}

	s.mu.Lock()
	s.state.MusicInfo = &info
	s.mu.Unlock()
	s.notify()
	return info, nil
}

// SetError sets the banner.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.state.Error = msg
	s.mu.Unlock()
	s.notify()
}

// ClearError dismisses the banner.
func (s *Store) ClearError() {
	s.SetError("")
}

// ExpireNotices drops notices older than maxAge. It returns true if any
// were dropped.
func (s *Store) ExpireNotices(maxAge time.Duration) bool {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	kept := s.state.Notices[:0]
	for _, n := range s.state.Notices {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	dropped := len(kept) != len(s.state.Notices)
	s.state.Notices = kept
	s.mu.Unlock()

	if dropped {
		s.notify()
	}
	return dropped
}
