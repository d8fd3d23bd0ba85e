// Package store holds the client's view of the backend and the actions
// that change it.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/soundscape/internal/api"
	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/player"
)

// DefaultVolume is shown until the backend reports one.
const DefaultVolume = 50

// Backend is what the Store needs from the command gateway.
type Backend interface {
	Settings(ctx context.Context, withDevices bool) (*api.SettingsPayload, error)
	SaveSettings(ctx context.Context, settings core.Settings) error
	Version(ctx context.Context) (string, error)
	Volume(ctx context.Context, did string) (api.VolumeResponse, error)
	SetVolume(ctx context.Context, did string, volume int) (api.VolumeResponse, error)
	MusicList(ctx context.Context) (core.Playlists, error)
	Search(ctx context.Context, term string) (api.SearchResult, error)
	PlayMusicList(ctx context.Context, did, playlist, track string) error
	PlayingMusic(ctx context.Context, did string) (api.PlayingResponse, error)
	MusicInfo(ctx context.Context, name string) (core.MusicInfo, error)

	TogglePlayPause(ctx context.Context, did string) error
	PlayNext(ctx context.Context, did string) error
	PlayPrevious(ctx context.Context, did string) error
	RefreshList(ctx context.Context, did string) error
	SetShuffle(ctx context.Context, did string, on bool) error
	SetLoopMode(ctx context.Context, did string, mode core.LoopMode) error
	SetPlayMode(ctx context.Context, did string, mode core.PlayMode) error
}

var _ Backend = (*player.Player)(nil)

// State is a snapshot of everything the presentation shows.
type State struct {
	Devices        []core.Device
	SelectedDevice string
	// MissingDevice is a requested device absent from the device list.
	// It is selected once a device list contains it.
	MissingDevice string

	Playlists        core.Playlists
	PlaylistsVersion uint64 // bumped when the collection changes
	SelectedPlaylist string
	CurrentPlaylist  core.TrackList
	MusicList        core.TrackList

	CurrentMusic *core.CurrentMusic
	IsPlaying    bool
	Progress     core.Progress
	MusicInfo    *core.MusicInfo

	Volume   int
	Shuffle  bool
	Loop     core.LoopMode
	PlayMode core.PlayMode

	// VolumePending is set while a volume change awaits confirmation.
	VolumePending bool

	Loading bool
	Error   string
	Notices []Notice

	Settings core.Settings
	Version  string

	UpdatedAt time.Time
}

// HasDevice reports whether a device is selected.
func (s State) HasDevice() bool {
	return s.SelectedDevice != ""
}

// Device returns the selected device, if it is in the device list.
func (s State) Device() (core.Device, bool) {
	if s.SelectedDevice == "" {
		return core.Device{}, false
	}
	return core.FindDevice(s.Devices, s.SelectedDevice)
}

// TrackName returns the current track name or "".
func (s State) TrackName() string {
	if s.CurrentMusic == nil {
		return ""
	}
	return s.CurrentMusic.Name
}

// Hooks are called outside the store's lock.
type Hooks struct {
	// PlayStarted runs on every transition into playing and after every
	// successful play action.
	PlayStarted func()
	// DeviceChanged runs when the selected device changes. did is "" on
	// deselection.
	DeviceChanged func(did string)
}

// Store is the single owner of client state. It is safe for concurrent use.
// No lock is held during backend calls.
type Store struct {
	backend  Backend
	reporter Reporter
	hooks    Hooks
	log      zerolog.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state State

	volume   Optimistic[int]
	shuffle  Optimistic[bool]
	loop     Optimistic[core.LoopMode]
	playMode Optimistic[core.PlayMode]

	devicesSeq     uint64
	devicesApplied uint64
	currentSeq     uint64
	currentApplied uint64
	loading        int
	listsHash      uint64
	noticeID       uint64

	listenerMu sync.Mutex
	listeners  map[int]func()
	nextID     int
}

// Option configures a Store.
type Option func(*Store)

// WithReporter forwards every report to r after the store has routed it.
func WithReporter(r Reporter) Option {
	return func(s *Store) { s.reporter = r }
}

// WithHooks sets the play and device hooks.
func WithHooks(h Hooks) Option {
	return func(s *Store) { s.hooks = h }
}

// WithLogger sets the logger used for diagnostic reports.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithDevice preselects a device by did or name. A name is resolved to a
// did by the next LoadDevices.
func WithDevice(id string) Option {
	return func(s *Store) { s.state.SelectedDevice = id }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		log:       zlog.Logger,
		now:       time.Now,
		volume:    NewOptimistic(DefaultVolume),
		shuffle:   NewOptimistic(false),
		loop:      NewOptimistic(core.LoopOff),
		playMode:  NewOptimistic(core.PlayModeSequential),
		listeners: make(map[int]func()),
	}
	s.state.Playlists = core.NewPlaylists()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetHooks replaces the hooks. The composition root uses it when the poll
// supervisor needs the store before the hooks can exist.
func (s *Store) SetHooks(h Hooks) {
	s.mu.Lock()
	s.hooks = h
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Devices = cloneDevices(s.state.Devices)
	snap.Playlists = s.state.Playlists.Clone()
	snap.CurrentPlaylist = s.state.CurrentPlaylist.Clone()
	snap.MusicList = s.state.MusicList.Clone()
	if s.state.CurrentMusic != nil {
		cm := *s.state.CurrentMusic
		snap.CurrentMusic = &cm
	}
	if s.state.MusicInfo != nil {
		mi := *s.state.MusicInfo
		snap.MusicInfo = &mi
	}
	if len(s.state.Notices) > 0 {
		snap.Notices = append([]Notice(nil), s.state.Notices...)
	}
	snap.Settings = s.state.Settings.Clone()

	snap.Volume = s.volume.Value()
	snap.VolumePending = s.volume.Pending()
	snap.Shuffle = s.shuffle.Value()
	snap.Loop = s.loop.Value()
	snap.PlayMode = s.playMode.Value()
	snap.Loading = s.loading > 0
	return snap
}

// IsPlaying reports whether the last poll saw the device playing.
func (s *Store) IsPlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsPlaying
}

// SelectedDevice returns the selected device id, or "".
func (s *Store) SelectedDevice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedDevice
}

// Subscribe registers fn to run after every state change. It returns a
// function that unregisters it.
func (s *Store) Subscribe(fn func()) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	s.state.UpdatedAt = s.now()
	s.mu.Unlock()

	s.listenerMu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) startLoading() func() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	s.notify()
	return func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
		s.notify()
	}
}

func (s *Store) playStarted() {
	s.mu.RLock()
	fn := s.hooks.PlayStarted
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (s *Store) deviceChanged(did string) {
	s.mu.RLock()
	fn := s.hooks.DeviceChanged
	s.mu.RUnlock()
	if fn != nil {
		fn(did)
	}
}

// resetPlaybackLocked forgets the previous device's playback state. Replies
// still in flight for it are discarded.
func (s *Store) resetPlaybackLocked() {
	s.state.CurrentMusic = nil
	s.state.IsPlaying = false
	s.state.Progress = core.Progress{}
	s.state.MusicInfo = nil
	s.currentSeq++
	s.currentApplied = s.currentSeq
}

// requireDevice returns the selected device or reports the missing
// precondition on ch.
func (s *Store) requireDevice(op string, ch Channel) (string, error) {
	did := s.SelectedDevice()
	if did == "" {
		s.report(Report{Channel: ch, Op: op, Message: msgSelectDevice, Err: errNoDevice})
		return "", errNoDevice
	}
	return did, nil
}

func cloneDevices(in []core.Device) []core.Device {
	if in == nil {
		return nil
	}
	out := make([]core.Device, len(in))
	copy(out, in)
	return out
}
