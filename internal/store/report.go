package store

import (
	"time"
)

// Channel says where a failure or outcome is surfaced.
type Channel int

const (
	// DiagnosticOnly goes to the log and nowhere else.
	DiagnosticOnly Channel = iota
	// Transient is a short-lived notice shown for both outcomes.
	Transient
	// Persistent sets the error banner until dismissed or replaced.
	Persistent
)

func (c Channel) String() string {
	switch c {
	case Transient:
		return "transient"
	case Persistent:
		return "persistent"
	default:
		return "diagnostic"
	}
}

// Report is one outcome routed through a Reporter.
type Report struct {
	Channel Channel
	Op      string
	Message string
	Err     error
	// Success marks a Transient report of a successful action.
	Success bool
}

// Reporter receives every report the Store routes.
type Reporter interface {
	Report(Report)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Report)

// Report calls f(r).
func (f ReporterFunc) Report(r Report) { f(r) }

// Notice is a transient message waiting to be shown.
type Notice struct {
	ID      uint64
	Message string
	Success bool
	At      time.Time
}

// Banner messages.
const (
	msgSelectDevice  = "Please select a device first"
	msgNothingToPlay = "Nothing to resume"
	msgNoTrack       = "Nothing is playing"
	msgRefreshed     = "Music list refreshed"
	msgSettingsSaved = "Settings saved"
)

// report routes r into the store's state and then to the external reporter.
func (s *Store) report(r Report) {
	switch r.Channel {
	case Persistent:
		s.mu.Lock()
		s.state.Error = r.Message
		s.mu.Unlock()
		s.log.Debug().Str("op", r.Op).Err(r.Err).Msg(r.Message)
	case Transient:
		s.mu.Lock()
		s.noticeID++
		s.state.Notices = append(s.state.Notices, Notice{
			ID:      s.noticeID,
			Message: r.Message,
			Success: r.Success,
			At:      s.now(),
		})
		s.mu.Unlock()
		if r.Err != nil {
			s.log.Debug().Str("op", r.Op).Err(r.Err).Msg(r.Message)
		}
	default:
		s.mu.RLock()
		did := s.state.SelectedDevice
		s.mu.RUnlock()
		s.log.Warn().Str("op", r.Op).Str("device", did).Err(r.Err).Msg(r.Message)
	}

	if r.Channel != DiagnosticOnly {
		s.notify()
	}
	if s.reporter != nil {
		s.reporter.Report(r)
	}
}

func (s *Store) fail(ch Channel, op, prefix string, err error) {
	s.report(Report{Channel: ch, Op: op, Message: prefix + err.Error(), Err: err})
}
