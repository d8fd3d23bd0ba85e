package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/tessro/soundscape/internal/api"
	"github.com/tessro/soundscape/internal/core"
)

// fakeBackend is an in-memory Backend. Fields ending in Err make the
// matching call fail.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	devices     []core.Device
	settings    core.Settings
	settingsErr error

	playlists core.Playlists
	listErr   error

	playing    api.PlayingResponse
	playingErr error
	// playingFn, when set, replaces playing/playingErr. n counts calls from 1.
	playingFn func(n int) (api.PlayingResponse, error)
	playingN  int

	volume    api.VolumeResponse
	volumeErr error
	setVolErr error
	// setVolBare answers setvolume with ret OK and no volume.
	setVolBare bool

	search    api.SearchResult
	searchErr error

	cmdErr     error
	playErr    error
	refreshErr error
	saveErr    error
	version    string
	info       core.MusicInfo
}

func intPtr(v int) *int { return &v }

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		devices: []core.Device{
			{DID: "111", Name: "Kitchen", PlayType: intPtr(2)},
			{DID: "222", Name: "Bedroom", PlayType: intPtr(0)},
		},
		settings:  core.Settings{"hostname": "192.168.1.2"},
		playlists: core.NewPlaylists(),
		playing:   api.PlayingResponse{Ret: "OK"},
		volume:    api.VolumeResponse{Ret: "OK", Volume: intPtr(28)},
		version:   "0.3.50",
	}
}

func (f *fakeBackend) record(format string, args ...any) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Settings(ctx context.Context, withDevices bool) (*api.SettingsPayload, error) {
	f.record("settings %t", withDevices)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	p := &api.SettingsPayload{Settings: f.settings.Clone()}
	if withDevices {
		p.Devices = append([]core.Device(nil), f.devices...)
	}
	return p, nil
}

func (f *fakeBackend) SaveSettings(ctx context.Context, settings core.Settings) error {
	f.record("savesetting")
	return f.saveErr
}

func (f *fakeBackend) Version(ctx context.Context) (string, error) {
	f.record("version")
	return f.version, nil
}

func (f *fakeBackend) Volume(ctx context.Context, did string) (api.VolumeResponse, error) {
	f.record("getvolume %s", did)
	return f.volume, f.volumeErr
}

func (f *fakeBackend) SetVolume(ctx context.Context, did string, volume int) (api.VolumeResponse, error) {
	f.record("setvolume %s %d", did, volume)
	if f.setVolErr != nil {
		return api.VolumeResponse{}, f.setVolErr
	}
	if f.setVolBare {
		return api.VolumeResponse{Ret: "OK"}, nil
	}
	return api.VolumeResponse{Ret: "OK", Volume: intPtr(volume)}, nil
}

func (f *fakeBackend) MusicList(ctx context.Context) (core.Playlists, error) {
	f.record("musiclist")
	if f.listErr != nil {
		return core.Playlists{}, f.listErr
	}
	return f.playlists.Clone(), nil
}

func (f *fakeBackend) Search(ctx context.Context, term string) (api.SearchResult, error) {
	f.record("search %s", term)
	return f.search, f.searchErr
}

func (f *fakeBackend) PlayMusicList(ctx context.Context, did, playlist, track string) error {
	f.record("playmusiclist %s %s %s", did, playlist, track)
	return f.playErr
}

func (f *fakeBackend) PlayingMusic(ctx context.Context, did string) (api.PlayingResponse, error) {
	f.record("playingmusic %s", did)
	f.mu.Lock()
	f.playingN++
	n, fn := f.playingN, f.playingFn
	f.mu.Unlock()
	if fn != nil {
		return fn(n)
	}
	return f.playing, f.playingErr
}

func (f *fakeBackend) MusicInfo(ctx context.Context, name string) (core.MusicInfo, error) {
	f.record("musicinfo %s", name)
	return f.info, nil
}

func (f *fakeBackend) command(did, cmd string) error {
	f.record("cmd %s %s", did, cmd)
	return f.cmdErr
}

func (f *fakeBackend) TogglePlayPause(ctx context.Context, did string) error {
	return f.command(did, "stop")
}

func (f *fakeBackend) PlayNext(ctx context.Context, did string) error {
	return f.command(did, "next")
}

func (f *fakeBackend) PlayPrevious(ctx context.Context, did string) error {
	return f.command(did, "previous")
}

func (f *fakeBackend) RefreshList(ctx context.Context, did string) error {
	f.record("cmd %s refresh", did)
	return f.refreshErr
}

func (f *fakeBackend) SetShuffle(ctx context.Context, did string, on bool) error {
	return f.command(did, fmt.Sprintf("shuffle %t", on))
}

func (f *fakeBackend) SetLoopMode(ctx context.Context, did string, mode core.LoopMode) error {
	return f.command(did, "loop "+mode.String())
}

func (f *fakeBackend) SetPlayMode(ctx context.Context, did string, mode core.PlayMode) error {
	return f.command(did, "mode "+mode.String())
}

// recorder collects reports.
type recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *recorder) Report(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

func (r *recorder) On(ch Channel) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Report
	for _, rep := range r.reports {
		if rep.Channel == ch {
			out = append(out, rep)
		}
	}
	return out
}
