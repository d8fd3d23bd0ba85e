package core

import (
	"encoding/json"
	"testing"
)

func TestTrackDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		index int
		want  string
	}{
		{"bare", BareTrack("晴天"), 0, "晴天"},
		{"tagged name wins", TaggedTrack("a", "b", "c"), 0, "a"},
		{"alt name before title", TaggedTrack("", "b", "c"), 0, "b"},
		{"title last", TaggedTrack("", "", "c"), 0, "c"},
		{"positional fallback", TaggedTrack("", "", ""), 4, "Track 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.DisplayName(tt.index); got != tt.want {
				t.Errorf("DisplayName(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestTrackUnmarshalJSON(t *testing.T) {
	var list TrackList
	data := `["one", {"name": "two"}, {"musicname": "three"}, {"title": "four"}, {}]`
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{"one", "two", "three", "four", "Track 5"}
	got := list.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if list[0].Kind != TrackBare {
		t.Errorf("list[0].Kind = %v, want TrackBare", list[0].Kind)
	}
	if list[1].Kind != TrackTagged {
		t.Errorf("list[1].Kind = %v, want TrackTagged", list[1].Kind)
	}
}

func TestTrackUnmarshalRejectsNumbers(t *testing.T) {
	var tr Track
	if err := json.Unmarshal([]byte(`42`), &tr); err == nil {
		t.Error("Unmarshal(42) error = nil, want error")
	}
}

func TestTrackMarshalKeepsShape(t *testing.T) {
	b, err := json.Marshal(TrackList{BareTrack("x"), TaggedTrack("", "y", "")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `["x",{"musicname":"y"}]`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestTrackListFind(t *testing.T) {
	list := TrackList{BareTrack("Yesterday"), TaggedTrack("", "", "Hey Jude")}

	if i := list.IndexOf("Hey Jude"); i != 1 {
		t.Errorf("IndexOf() = %d, want 1", i)
	}
	if i := list.IndexOf("missing"); i != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", i)
	}
	if name, ok := list.Find("yesterday"); !ok || name != "Yesterday" {
		t.Errorf("Find(yesterday) = %q, %v, want Yesterday, true", name, ok)
	}
}
