package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Error types for common failure scenarios.
var (
	ErrNoDevice          = errors.New("no device selected")
	ErrDeviceNotFound    = errors.New("device not found")
	ErrNoCurrentTrack    = errors.New("nothing to resume")
	ErrPlaylistNotFound  = errors.New("playlist not found")
	ErrTrackNotFound     = errors.New("track not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrServerUnreachable = errors.New("server unreachable")
	ErrBadResponse       = errors.New("unexpected response")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// SuggestedError wraps an error with a user-friendly suggestion.
type SuggestedError struct {
	Err        error
	Suggestion string
}

func (e *SuggestedError) Error() string {
	return e.Err.Error()
}

func (e *SuggestedError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &SuggestedError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var sugErr *SuggestedError
	if errors.As(err, &sugErr) && sugErr.Suggestion != "" {
		return sugErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Check server.username and server.password (or SOUNDSCAPE_USERNAME / SOUNDSCAPE_PASSWORD)"

	case errors.Is(err, ErrNoDevice):
		return "Pass --device, or run 'soundscape devices select' to pick a default"

	case errors.Is(err, ErrDeviceNotFound):
		return "Run 'soundscape devices' to see available devices"

	case errors.Is(err, ErrNoCurrentTrack):
		return "Start something with 'soundscape play <playlist> [track]'"

	case errors.Is(err, ErrPlaylistNotFound):
		return "Run 'soundscape playlists' to see available playlists"

	case errors.Is(err, ErrTrackNotFound):
		return "Run 'soundscape tracks <playlist>' or 'soundscape search <name>'"

	case errors.Is(err, ErrServerUnreachable) || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host"):
		return "Check server.url in your config (or SOUNDSCAPE_SERVER_URL) and that the server is running"

	case errors.Is(err, ErrConfigNotFound):
		return "Run 'soundscape config init' to create a config file"

	case errors.Is(err, ErrInvalidConfig):
		return "Run 'soundscape config show' and fix the reported fields"

	case strings.Contains(errStr, "500") || strings.Contains(errStr, "server error"):
		return "The server reported an internal error. Check its log and try again"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Err joins the collected errors, or returns nil.
func (p *PartialResult[T]) Err() error {
	return errors.Join(p.Errors...)
}
