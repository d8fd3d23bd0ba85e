package core

import "testing"

func TestPlayModeRoundTrip(t *testing.T) {
	for _, m := range PlayModes() {
		if got := ModeFromIndex(IndexForMode(m)); got != m {
			t.Errorf("ModeFromIndex(IndexForMode(%s)) = %s", m, got)
		}
	}
}

func TestModeFromIndex(t *testing.T) {
	tests := []struct {
		index int
		want  PlayMode
	}{
		{0, PlayModeSingleLoop},
		{1, PlayModeAllLoop},
		{2, PlayModeRandom},
		{3, PlayModeSingle},
		{4, PlayModeSequential},
		{5, PlayModeSequential},
		{-1, PlayModeSequential},
		{99, PlayModeSequential},
	}

	for _, tt := range tests {
		if got := ModeFromIndex(tt.index); got != tt.want {
			t.Errorf("ModeFromIndex(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestParsePlayMode(t *testing.T) {
	tests := []struct {
		input   string
		want    PlayMode
		wantErr bool
	}{
		{"random", PlayModeRandom, false},
		{"ALL-LOOP", PlayModeAllLoop, false},
		{"单曲循环", PlayModeSingleLoop, false},
		{"3", PlayModeSingle, false},
		{"shuffle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlayMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlayMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePlayMode(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlayModeNextCycles(t *testing.T) {
	m := PlayModeSingleLoop
	seen := map[PlayMode]bool{}
	for i := 0; i < len(PlayModes()); i++ {
		seen[m] = true
		m = m.Next()
	}
	if m != PlayModeSingleLoop {
		t.Errorf("Next() did not wrap, got %s", m)
	}
	if len(seen) != len(PlayModes()) {
		t.Errorf("Next() visited %d modes, want %d", len(seen), len(PlayModes()))
	}
}

func TestLoopModeNext(t *testing.T) {
	if got := LoopOff.Next(); got != LoopAll {
		t.Errorf("off.Next() = %s, want all", got)
	}
	if got := LoopAll.Next(); got != LoopOne {
		t.Errorf("all.Next() = %s, want one", got)
	}
	if got := LoopOne.Next(); got != LoopOff {
		t.Errorf("one.Next() = %s, want off", got)
	}
}

func TestParseLoopMode(t *testing.T) {
	for _, in := range []string{"off", " ALL ", "one"} {
		if _, err := ParseLoopMode(in); err != nil {
			t.Errorf("ParseLoopMode(%q) error = %v", in, err)
		}
	}
	if _, err := ParseLoopMode("track"); err == nil {
		t.Error("ParseLoopMode(track) should fail")
	}
}
