package wizard

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/soundscape/internal/core"
)

func intPtr(v int) *int { return &v }

func TestDeviceOptions(t *testing.T) {
	devices := []core.Device{
		{DID: "111", Name: "Kitchen", PlayType: intPtr(2)},
		{DID: "222", Name: "Bedroom"},
		{DID: "333"},
	}

	options := DeviceOptions(devices, "222")
	if len(options) != 3 {
		t.Fatalf("len = %d, want 3", len(options))
	}

	tests := []struct {
		value string
		label string
	}{
		{"222", "Bedroom (222) [current]"},
		{"111", "Kitchen (111) · 随机播放"},
		{"333", "333"},
	}
	for i, tt := range tests {
		if options[i].Value != tt.value {
			t.Errorf("options[%d].Value = %q, want %q", i, options[i].Value, tt.value)
		}
		if options[i].Key != tt.label {
			t.Errorf("options[%d].Key = %q, want %q", i, options[i].Key, tt.label)
		}
	}
}

func TestNeedsDevice(t *testing.T) {
	two := []core.Device{{DID: "1"}, {DID: "2"}}
	tests := []struct {
		name      string
		requested string
		devices   []core.Device
		want      bool
	}{
		{"requested", "1", two, false},
		{"ambiguous", "", two, true},
		{"single", "", two[:1], false},
		{"none", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsDevice(tt.requested, tt.devices); got != tt.want {
				t.Errorf("NeedsDevice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettingSectionsCoverForm(t *testing.T) {
	var form core.SettingsForm
	sections := settingSections(&form)

	seen := map[string]bool{}
	for _, s := range sections {
		for _, f := range s.fields {
			if seen[f.key] {
				t.Errorf("key %q appears twice", f.key)
			}
			seen[f.key] = true
			if (f.text == nil) == (f.flag == nil) {
				t.Errorf("key %q must bind exactly one of text or flag", f.key)
			}
		}
	}

	typ := reflect.TypeOf(form)
	for i := 0; i < typ.NumField(); i++ {
		key := strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
		if !seen[key] {
			t.Errorf("key %q has no form field", key)
		}
	}
	if len(seen) != typ.NumField() {
		t.Errorf("form has %d keys, struct has %d fields", len(seen), typ.NumField())
	}

	for _, s := range sections {
		for _, f := range s.fields {
			if f.key == "hostname" {
				*f.text = "10.0.0.9"
			}
			if f.key == "enable_pull_ask" {
				*f.flag = true
			}
		}
	}
	if form.Hostname != "10.0.0.9" || !form.EnablePullAsk {
		t.Errorf("form = %+v, want hostname and pull ask written", form)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(m SearchModel, msg tea.Msg) (SearchModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(SearchModel), cmd
}

func TestSearchModelSelectsResult(t *testing.T) {
	var queries []string
	search := func(q string) (core.TrackList, error) {
		queries = append(queries, q)
		return core.TrackList{core.BareTrack("晴天.mp3"), core.TaggedTrack("", "", "Sunny")}, nil
	}

	m := NewSearchModel(search)
	m.input.SetValue("晴")

	m, cmd := step(m, debounceMsg{query: "晴"})
	if cmd == nil {
		t.Fatal("debounce for current input should search")
	}
	m, _ = step(m, cmd())
	if len(queries) != 1 || queries[0] != "晴" {
		t.Fatalf("queries = %v", queries)
	}
	if len(m.hits) != 2 {
		t.Fatalf("results = %v", m.hits)
	}

	m, _ = step(m, keyMsg("down"))
	m, _ = step(m, keyMsg("enter"))
	if got := m.Selected(); got != "Sunny" {
		t.Errorf("Selected() = %q, want Sunny", got)
	}
}

func TestSearchModelIgnoresStaleResults(t *testing.T) {
	m := NewSearchModel(func(string) (core.TrackList, error) { return nil, nil })
	m.input.SetValue("new")
	m.query = "new"

	m, _ = step(m, searchResultsMsg{query: "old", hits: core.TrackList{core.BareTrack("old.mp3")}})
	if len(m.hits) != 0 {
		t.Errorf("results = %v, want none", m.hits)
	}

	m, _ = step(m, debounceMsg{query: "stale"})
	if m.pending {
		t.Error("debounce for an outdated query should not search")
	}
}

func TestSearchModelShowsError(t *testing.T) {
	m := NewSearchModel(nil)
	m.query = "x"
	m, _ = step(m, searchResultsMsg{query: "x", err: errors.New("boom")})
	if !strings.Contains(m.View(), "boom") {
		t.Errorf("View() = %q, want error", m.View())
	}
}

func TestSearchModelEscQuitsWithoutSelection(t *testing.T) {
	m := NewSearchModel(nil)
	m, cmd := step(m, keyMsg("esc"))
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if m.Selected() != "" {
		t.Errorf("Selected() = %q, want empty", m.Selected())
	}
}
