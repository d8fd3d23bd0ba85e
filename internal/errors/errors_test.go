package errors

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"explicit", WithSuggestion(errors.New("boom"), "try again"), "try again"},
		{"wrapped no device", errors.Wrap(ErrNoDevice, "failed to play"), "Pass --device"},
		{"marked unauthorized", errors.Mark(errors.New("API error: 401 Unauthorized"), ErrUnauthorized), "server.username"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8090: connect: connection refused"), "server.url"},
		{"unknown", errors.New("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	got := Format(errors.Wrap(ErrNoCurrentTrack, "failed to toggle"))
	if !strings.HasPrefix(got, "Error: failed to toggle: nothing to resume") {
		t.Errorf("Format() = %q", got)
	}
	if !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q, want a suggestion", got)
	}

	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format(plain) = %q", got)
	}
}

func TestPartialResult(t *testing.T) {
	var p PartialResult[[]string]
	p.AddError(nil)
	if p.HasErrors() {
		t.Fatal("HasErrors() = true after adding nil")
	}

	p.AddError(ErrDeviceNotFound)
	p.AddError(ErrTrackNotFound)
	if err := p.Err(); err == nil || !strings.Contains(err.Error(), "track not found") {
		t.Errorf("Err() = %v, want it to mention both errors", err)
	}
}
