// Package tail follows a device's playback and turns state changes into
// events.
package tail

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/soundscape/internal/api"
	"github.com/tessro/soundscape/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventVolumeChange
	EventPlaylistChange
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// Source reads a device's playback and volume. *player.Player implements it.
type Source interface {
	PlayingMusic(ctx context.Context, did string) (api.PlayingResponse, error)
	Volume(ctx context.Context, did string) (api.VolumeResponse, error)
}

// Watcher polls one device for state changes and emits events.
type Watcher struct {
	source   Source
	did      string
	interval time.Duration
	events   chan Event
	done     chan struct{}
	log      zerolog.Logger
	now      func() time.Time
}

// NewWatcher creates a new state watcher for device did.
func NewWatcher(source Source, did string, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		source:   source,
		did:      did,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		log:      zlog.Logger,
		now:      time.Now,
	}
}

// Events returns the channel of playback events. It is closed when Start
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev, err := w.sample(ctx)
	if err != nil {
		w.log.Debug().Err(err).Msg("initial sample failed")
	}
	w.emit(diffStates(nil, prev, w.now()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			curr, err := w.sample(ctx)
			if err != nil {
				w.log.Debug().Err(err).Msg("sample failed")
				continue
			}
			w.emit(diffStates(prev, curr, w.now()))
			prev = curr
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

func (w *Watcher) emit(events []Event) {
	for _, e := range events {
		select {
		case w.events <- e:
		default:
			// Drop event if channel is full
		}
	}
}

// sample reads playback and volume. A failed volume read keeps the state
// with volume -1 so it never registers as a change.
func (w *Watcher) sample(ctx context.Context) (*core.PlaybackState, error) {
	resp, err := w.source.PlayingMusic(ctx, w.did)
	if err != nil {
		return nil, err
	}
	state := resp.State(w.did)
	state.Volume = -1
	if vol, err := w.source.Volume(ctx, w.did); err == nil && vol.OK() {
		state.Volume = vol.Level()
	}
	return &state, nil
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr *core.PlaybackState, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	var events []Event
	add := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	// First poll - no previous state
	if prev == nil {
		if curr.HasTrack() {
			add(EventTrackChange)
		}
		return events
	}

	if trackChanged(prev, curr) {
		switch {
		case prev.HasTrack() && wasCompleted(prev):
			add(EventTrackComplete)
		case prev.HasTrack():
			add(EventTrackSkip)
		}
		if curr.HasTrack() {
			add(EventTrackChange)
		}
	}

	if prev.IsPlaying && !curr.IsPlaying {
		add(EventPause)
	} else if !prev.IsPlaying && curr.IsPlaying {
		add(EventResume)
	}

	if prev.Volume >= 0 && curr.Volume >= 0 && prev.Volume != curr.Volume {
		add(EventVolumeChange)
	}

	if playlistName(prev) != playlistName(curr) && playlistName(curr) != "" {
		add(EventPlaylistChange)
	}

	return events
}

func trackChanged(prev, curr *core.PlaybackState) bool {
	return prev.TrackName() != curr.TrackName()
}

func playlistName(s *core.PlaybackState) string {
	if s.Music == nil {
		return ""
	}
	return s.Music.Playlist
}

// wasCompleted returns true if the track likely completed naturally.
func wasCompleted(state *core.PlaybackState) bool {
	if state.Progress.Duration <= 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	return state.Progress.Fraction() >= 0.95
}
