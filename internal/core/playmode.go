package core

import (
	"fmt"
	"strings"
)

// PlayMode controls playback order and repetition on the device.
type PlayMode string

const (
	PlayModeSingleLoop PlayMode = "single_loop"
	PlayModeAllLoop    PlayMode = "all_loop"
	PlayModeRandom     PlayMode = "random"
	PlayModeSingle     PlayMode = "single"
	PlayModeSequential PlayMode = "sequential"
)

// playModeTable is the backend's play_type index assignment. Both
// directions of the mapping are derived from it.
var playModeTable = [...]PlayMode{
	0: PlayModeSingleLoop,
	1: PlayModeAllLoop,
	2: PlayModeRandom,
	3: PlayModeSingle,
	4: PlayModeSequential,
}

// playModeLabels are the names the backend and its voice prompts use.
var playModeLabels = map[PlayMode]string{
	PlayModeAllLoop:    "全部循环",
	PlayModeSingleLoop: "单曲循环",
	PlayModeRandom:     "随机播放",
	PlayModeSingle:     "单曲播放",
	PlayModeSequential: "顺序播放",
}

// PlayModes returns every mode in index order.
func PlayModes() []PlayMode {
	out := make([]PlayMode, len(playModeTable))
	copy(out, playModeTable[:])
	return out
}

// ModeFromIndex maps a play_type index to a mode. Unknown indices map to
// PlayModeSequential.
func ModeFromIndex(index int) PlayMode {
	if index < 0 || index >= len(playModeTable) {
		return PlayModeSequential
	}
	return playModeTable[index]
}

// IndexForMode returns the play_type index of m, or -1 for an unknown mode.
func IndexForMode(m PlayMode) int {
	for i, mode := range playModeTable {
		if mode == m {
			return i
		}
	}
	return -1
}

// Valid reports whether m is one of the known modes.
func (m PlayMode) Valid() bool {
	return IndexForMode(m) >= 0
}

// Label returns the backend's display name for the mode.
func (m PlayMode) Label() string {
	if l, ok := playModeLabels[m]; ok {
		return l
	}
	return playModeLabels[PlayModeSequential]
}

// Next returns the mode after m in index order, wrapping around.
func (m PlayMode) Next() PlayMode {
	i := IndexForMode(m)
	return ModeFromIndex((i + 1) % len(playModeTable))
}

func (m PlayMode) String() string {
	return string(m)
}

// ParsePlayMode accepts a mode name (all_loop, random, ...), its backend
// label, or a play_type index.
func ParsePlayMode(s string) (PlayMode, error) {
	s = strings.TrimSpace(s)
	norm := strings.ReplaceAll(strings.ToLower(s), "-", "_")
	for _, m := range playModeTable {
		if string(m) == norm || m.Label() == s {
			return m, nil
		}
	}
	for i := range playModeTable {
		if s == fmt.Sprint(i) {
			return playModeTable[i], nil
		}
	}
	return "", fmt.Errorf("invalid play mode: %s (must be one of %s)", s, joinModes())
}

func joinModes() string {
	names := make([]string, len(playModeTable))
	for i, m := range playModeTable {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// LoopMode is the client-side repeat toggle.
type LoopMode string

const (
	LoopOff LoopMode = "off"
	LoopAll LoopMode = "all"
	LoopOne LoopMode = "one"
)

var loopCycle = [...]LoopMode{LoopOff, LoopAll, LoopOne}

// Next returns the following mode in the off → all → one → off cycle.
func (l LoopMode) Next() LoopMode {
	for i, m := range loopCycle {
		if m == l {
			return loopCycle[(i+1)%len(loopCycle)]
		}
	}
	return LoopAll
}

func (l LoopMode) String() string {
	if l == "" {
		return string(LoopOff)
	}
	return string(l)
}

// ParseLoopMode accepts off, all or one.
func ParseLoopMode(s string) (LoopMode, error) {
	norm := LoopMode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range loopCycle {
		if m == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid loop mode: %s (must be one of off, all, one)", s)
}
