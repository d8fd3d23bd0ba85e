package player

import (
	"fmt"

	"github.com/tessro/soundscape/internal/core"
)

// Command tokens understood by the backend's /cmd endpoint. Most are the
// same phrases the speaker accepts as voice commands.
const (
	CmdStop        = "关机"
	CmdNext        = "下一首"
	CmdPrevious    = "上一首"
	CmdRefreshList = "刷新列表"
	CmdShuffleOn   = "shuffle_on"
	CmdShuffleOff  = "shuffle_off"
)

var playModeCommands = map[core.PlayMode]string{
	core.PlayModeAllLoop:    "全部循环",
	core.PlayModeSingleLoop: "单曲循环",
	core.PlayModeRandom:     "随机播放",
	core.PlayModeSingle:     "单曲播放",
	core.PlayModeSequential: "顺序播放",
}

// PlayModeCommand returns the token that switches a device to mode m.
func PlayModeCommand(m core.PlayMode) (string, error) {
	cmd, ok := playModeCommands[m]
	if !ok {
		return "", fmt.Errorf("unknown play mode %q", m)
	}
	return cmd, nil
}

// LoopCommand returns the token for a loop mode.
func LoopCommand(l core.LoopMode) string {
	return "loop_" + l.String()
}

// ShuffleCommand returns the token that turns shuffle on or off.
func ShuffleCommand(on bool) string {
	if on {
		return CmdShuffleOn
	}
	return CmdShuffleOff
}
