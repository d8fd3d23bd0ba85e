package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	playing atomic.Bool
	loads   atomic.Int32
	// stopAfter, when positive, reports not playing once that many loads ran.
	stopAfter int32
}

func (f *fakeTarget) IsPlaying() bool {
	return f.playing.Load()
}

func (f *fakeTarget) LoadCurrentMusic(ctx context.Context) error {
	n := f.loads.Add(1)
	if f.stopAfter > 0 && n >= f.stopAfter {
		f.playing.Store(false)
	}
	return nil
}

const interval = 10 * time.Millisecond

func newSupervisor(t *testing.T, target Target) *Supervisor {
	t.Helper()
	s := New(target, interval, WithLogger(zerolog.Nop()))
	t.Cleanup(s.Close)
	return s
}

func TestStartsIdle(t *testing.T) {
	s := newSupervisor(t, &fakeTarget{})
	assert.Equal(t, Idle, s.State())
}

func TestPollsWhilePlayingThenSelfCancels(t *testing.T) {
	target := &fakeTarget{stopAfter: 3}
	target.playing.Store(true)
	s := newSupervisor(t, target)

	s.Arm()
	assert.Equal(t, Polling, s.State())

	require.Eventually(t, func() bool { return s.State() == Idle }, time.Second, interval)
	assert.Equal(t, int32(3), target.loads.Load(), "no reloads after the target stopped playing")

	time.Sleep(5 * interval)
	assert.Equal(t, int32(3), target.loads.Load(), "a cancelled timer does not tick idly")
}

func TestArmWhileNotPlayingCancelsOnFirstTick(t *testing.T) {
	target := &fakeTarget{}
	s := newSupervisor(t, target)

	s.Arm()
	require.Eventually(t, func() bool { return s.State() == Idle }, time.Second, interval)
	assert.Equal(t, int32(0), target.loads.Load())
}

func TestRearmAfterSelfCancel(t *testing.T) {
	target := &fakeTarget{}
	s := newSupervisor(t, target)

	s.Arm()
	require.Eventually(t, func() bool { return s.State() == Idle }, time.Second, interval)

	target.playing.Store(true)
	s.Arm()
	require.Eventually(t, func() bool { return target.loads.Load() >= 2 }, time.Second, interval)
	assert.Equal(t, Polling, s.State())
}

func TestDisarm(t *testing.T) {
	target := &fakeTarget{}
	target.playing.Store(true)
	s := newSupervisor(t, target)

	s.Arm()
	require.Eventually(t, func() bool { return target.loads.Load() >= 1 }, time.Second, interval)

	s.Disarm()
	assert.Equal(t, Idle, s.State())
	time.Sleep(2 * interval)
	n := target.loads.Load()
	time.Sleep(5 * interval)
	assert.Equal(t, n, target.loads.Load())
}

func TestArmIsIdempotent(t *testing.T) {
	target := &fakeTarget{}
	target.playing.Store(true)
	s := newSupervisor(t, target)

	s.Arm()
	s.Arm()
	s.Arm()

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	assert.Equal(t, uint64(1), gen)
}

func TestArmAfterCloseIsNoop(t *testing.T) {
	target := &fakeTarget{}
	target.playing.Store(true)
	s := New(target, interval, WithLogger(zerolog.Nop()))

	s.Close()
	s.Arm()
	assert.Equal(t, Idle, s.State())
	time.Sleep(3 * interval)
	assert.Equal(t, int32(0), target.loads.Load())
}

// startsDuringCheck begins playing while the first not-playing check is in
// flight, the way a play action's Arm can land between the check and the
// cancel.
type startsDuringCheck struct {
	fakeTarget
	sup    *Supervisor
	checks atomic.Int32
}

func (f *startsDuringCheck) IsPlaying() bool {
	if f.checks.Add(1) == 1 {
		f.playing.Store(true)
		f.sup.Arm()
		return false
	}
	return f.fakeTarget.IsPlaying()
}

func TestArmDuringNotPlayingCheckKeepsPolling(t *testing.T) {
	target := &startsDuringCheck{}
	s := newSupervisor(t, target)
	target.sup = s

	s.Arm()
	require.Eventually(t, func() bool { return target.loads.Load() >= 2 }, time.Second, interval)
	assert.Equal(t, Polling, s.State())
}
