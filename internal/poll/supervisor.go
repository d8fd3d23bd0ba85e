// Package poll keeps playback state fresh while a device is playing.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = time.Second

// Target is what the supervisor polls. *store.Store implements it.
type Target interface {
	IsPlaying() bool
	LoadCurrentMusic(ctx context.Context) error
}

// State is the supervisor state.
type State int

const (
	Idle State = iota
	Polling
)

func (s State) String() string {
	if s == Polling {
		return "polling"
	}
	return "idle"
}

// Supervisor owns the poll timer. While polling, each tick reloads the
// current music if the target is playing and cancels the timer otherwise.
// A cancelled timer stays idle until Arm is called again.
type Supervisor struct {
	target   Target
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	state  State
	gen    uint64
	arms   uint64 // Arm calls, including ones that found polling running
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Supervisor) { s.log = l }
}

// New creates an idle Supervisor.
func New(target Target, interval time.Duration, opts ...Option) *Supervisor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Supervisor{
		target:   target,
		interval: interval,
		log:      zlog.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Arm starts polling. It does nothing if closed. If already polling, the
// running timer survives its next not-playing check.
func (s *Supervisor) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.arms++
	if s.state == Polling {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.gen++
	s.state = Polling
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(ctx, s.gen)
	s.log.Debug().Dur("interval", s.interval).Msg("poll armed")
}

// Disarm cancels polling unconditionally, including an in-flight reload.
func (s *Supervisor) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Close disarms and waits for the timer goroutine to exit. Arm is a no-op
// afterwards.
func (s *Supervisor) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Supervisor) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.state == Polling {
		s.log.Debug().Msg("poll disarmed")
	}
	s.state = Idle
}

func (s *Supervisor) armCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.arms
}

// selfCancel moves to idle unless a newer Arm replaced this run or arrived
// after arms was read. It reports whether the run should exit.
func (s *Supervisor) selfCancel(gen, arms uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return true
	}
	if s.arms != arms {
		return false
	}
	s.stopLocked()
	return true
}

func (s *Supervisor) run(ctx context.Context, gen uint64) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		arms := s.armCount()
		if !s.target.IsPlaying() {
			if s.selfCancel(gen, arms) {
				return
			}
			continue
		}
		if err := s.target.LoadCurrentMusic(ctx); err != nil && ctx.Err() == nil {
			s.log.Debug().Err(err).Msg("poll reload failed")
		}
	}
}
