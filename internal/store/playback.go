package store

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/tessro/soundscape/internal/api"
	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/player"
)

// PlayMusicFromPlaylist plays track from playlist on the selected device and
// then refreshes the playback state. An empty track plays the list from its
// start. If the play call succeeds but the refresh fails, the previous
// playback state stays on display.
func (s *Store) PlayMusicFromPlaylist(ctx context.Context, playlist, track string) error {
	did, err := s.requireDevice("playMusicFromPlaylist", Persistent)
	if err != nil {
		return err
	}

	if err := s.backend.PlayMusicList(ctx, did, playlist, track); err != nil {
		s.fail(Persistent, "playMusicFromPlaylist", "Failed to play music: ", err)
		return errors.Wrap(err, "failed to play music")
	}
	s.playStarted()
	_ = s.LoadCurrentMusic(ctx)
	return nil
}

// TogglePlayPause stops playback when playing. Otherwise it plays the
// current track again from the selected playlist, since the backend has no
// resume command. Resuming with no current track fails with
// ErrNoCurrentTrack and makes no backend call.
func (s *Store) TogglePlayPause(ctx context.Context) error {
	did, err := s.requireDevice("togglePlayPause", Persistent)
	if err != nil {
		return err
	}

	s.mu.RLock()
	playing := s.state.IsPlaying
	var current core.CurrentMusic
	hasCurrent := s.state.CurrentMusic != nil && s.state.CurrentMusic.Name != ""
	if hasCurrent {
		current = *s.state.CurrentMusic
	}
	playlist := s.state.SelectedPlaylist
	s.mu.RUnlock()

	if playing {
		err = s.backend.TogglePlayPause(ctx, did)
	} else {
		if !hasCurrent {
			s.report(Report{Channel: Persistent, Op: "togglePlayPause", Message: msgNothingToPlay, Err: errNoCurrentTrack})
			return errNoCurrentTrack
		}
		if playlist == "" {
			playlist = current.Playlist
		}
		err = s.backend.PlayMusicList(ctx, did, playlist, current.Name)
	}
	if err != nil {
		s.fail(Persistent, "togglePlayPause", "Failed to toggle play/pause: ", err)
		return errors.Wrap(err, "failed to toggle play/pause")
	}

	if !playing {
		s.playStarted()
	}
	_ = s.LoadCurrentMusic(ctx)
	return nil
}

// PlayNext skips to the next track and refreshes the playback state.
func (s *Store) PlayNext(ctx context.Context) error {
	return s.skip(ctx, "playNext", "Failed to play next: ", s.backend.PlayNext)
}

// PlayPrevious goes back a track and refreshes the playback state.
func (s *Store) PlayPrevious(ctx context.Context) error {
	return s.skip(ctx, "playPrevious", "Failed to play previous: ", s.backend.PlayPrevious)
}

func (s *Store) skip(ctx context.Context, op, prefix string, send func(context.Context, string) error) error {
	did, err := s.requireDevice(op, Persistent)
	if err != nil {
		return err
	}
	if err := send(ctx, did); err != nil {
		s.fail(Persistent, op, prefix, err)
		return errors.Wrap(err, op)
	}
	s.playStarted()
	_ = s.LoadCurrentMusic(ctx)
	return nil
}

// SetVolume updates the displayed volume without calling the backend. It
// is meant for slider drags; SetVolumeEnd commits.
func (s *Store) SetVolume(v int) error {
	if _, err := s.requireDevice("setVolume", Persistent); err != nil {
		return err
	}
	s.mu.Lock()
	s.volume.Propose(player.ClampVolume(v))
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetVolumeEnd commits v to the backend. The backend's reported volume, or v
// when the reply carries none, confirms the displayed value. A failure reverts
// to the last confirmed volume.
func (s *Store) SetVolumeEnd(ctx context.Context, v int) error {
	did, err := s.requireDevice("setVolumeEnd", Persistent)
	if err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.volume.Begin()
	s.mu.Unlock()

	level := player.ClampVolume(v)
	resp, err := s.backend.SetVolume(ctx, did, level)
	if err == nil && resp.Ret != "" && resp.Ret != api.RetOK {
		err = errors.Newf("backend answered %q", resp.Ret)
	}
	if resp.OK() {
		level = resp.Level()
	}

	s.mu.Lock()
	if err != nil {
		s.volume.Fail(seq)
	} else {
		s.volume.Confirm(seq, level)
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.fail(Persistent, "setVolumeEnd", "Failed to set volume: ", err)
		return errors.Wrap(err, "failed to set volume")
	}
	return nil
}

// ToggleShuffle flips shuffle locally, then tells the backend.
func (s *Store) ToggleShuffle(ctx context.Context) error {
	return s.changeShuffle(ctx, "toggleShuffle", "Failed to toggle shuffle: ", func(on bool) bool { return !on })
}

// SetShuffle turns shuffle on or off. The backend does not report shuffle,
// so one-shot callers that know the wanted state use this over the toggle.
func (s *Store) SetShuffle(ctx context.Context, on bool) error {
	return s.changeShuffle(ctx, "setShuffle", "Failed to set shuffle: ", func(bool) bool { return on })
}

func (s *Store) changeShuffle(ctx context.Context, op, prefix string, next func(bool) bool) error {
	did, err := s.requireDevice(op, Persistent)
	if err != nil {
		return err
	}

	s.mu.Lock()
	on := next(s.shuffle.Value())
	seq := s.shuffle.Propose(on)
	s.mu.Unlock()
	s.notify()

	err = s.backend.SetShuffle(ctx, did, on)

	s.mu.Lock()
	if err != nil {
		s.shuffle.Fail(seq)
	} else {
		s.shuffle.Confirm(seq, on)
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.fail(Persistent, op, prefix, err)
		return errors.Wrap(err, "failed to change shuffle")
	}
	return nil
}

// ToggleLoop advances the loop mode off → all → one → off locally, then
// tells the backend.
func (s *Store) ToggleLoop(ctx context.Context) error {
	return s.changeLoop(ctx, "toggleLoop", "Failed to toggle loop: ", core.LoopMode.Next)
}

// SetLoop sets the loop mode directly.
func (s *Store) SetLoop(ctx context.Context, mode core.LoopMode) error {
	return s.changeLoop(ctx, "setLoop", "Failed to set loop: ", func(core.LoopMode) core.LoopMode { return mode })
}

func (s *Store) changeLoop(ctx context.Context, op, prefix string, next func(core.LoopMode) core.LoopMode) error {
	did, err := s.requireDevice(op, Persistent)
	if err != nil {
		return err
	}

	s.mu.Lock()
	mode := next(s.loop.Value())
	seq := s.loop.Propose(mode)
	s.mu.Unlock()
	s.notify()

	err = s.backend.SetLoopMode(ctx, did, mode)

	s.mu.Lock()
	if err != nil {
		s.loop.Fail(seq)
	} else {
		s.loop.Confirm(seq, mode)
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.fail(Persistent, op, prefix, err)
		return errors.Wrap(err, "failed to change loop")
	}
	return nil
}

// SetPlayMode shows mode immediately, sends it, and reloads the device list
// so the mode the backend reports wins. The reload also runs on failure.
// A device without play_type keeps the mode that was sent.
func (s *Store) SetPlayMode(ctx context.Context, mode core.PlayMode) error {
	if !mode.Valid() {
		return errors.Newf("unknown play mode %q", mode)
	}
	did, err := s.requireDevice("setPlayMode", Persistent)
	if err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.playMode.Propose(mode)
	s.mu.Unlock()
	s.notify()

	if err := s.backend.SetPlayMode(ctx, did, mode); err != nil {
		s.mu.Lock()
		s.playMode.Fail(seq)
		s.mu.Unlock()
		s.fail(Persistent, "setPlayMode", "Failed to set play mode: ", err)
		_ = s.LoadDevices(ctx)
		return errors.Wrap(err, "failed to set play mode")
	}

	s.mu.Lock()
	s.playMode.Confirm(seq, mode)
	s.mu.Unlock()
	return s.LoadDevices(ctx)
}

// CyclePlayMode switches to the mode after the current one.
func (s *Store) CyclePlayMode(ctx context.Context) error {
	s.mu.RLock()
	next := s.playMode.Value().Next()
	s.mu.RUnlock()
	return s.SetPlayMode(ctx, next)
}
