package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/player"
	"github.com/tessro/soundscape/internal/store"
)

const volumeStep = 10

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle play/pause",
	Long: `Stop playback if the device is playing, otherwise play the current
track again. The server has no resume, so a resumed track starts over.`,
	Args: cobra.NoArgs,
	RunE: runToggle,
}

var pauseCmd = &cobra.Command{
	Use:     "pause",
	Aliases: []string{"stop"},
	Short:   "Pause playback",
	Args:    cobra.NoArgs,
	RunE:    runPause,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume playback",
	Long:  `Play the current track again if the device is not playing.`,
	Args:  cobra.NoArgs,
	RunE:  runResume,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Args:  cobra.NoArgs,
	RunE:  runNext,
}

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"previous"},
	Short:   "Go to previous track",
	Args:    cobra.NoArgs,
	RunE:    runPrev,
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Show, set or adjust volume",
	Long: `Show the device volume, set it (0-100) or adjust it up/down.

Examples:
  soundscape volume        # Show volume
  soundscape volume 50     # Set volume to 50%
  soundscape volume --up   # Increase volume by 10%
  soundscape volume --down # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

var shuffleCmd = &cobra.Command{
	Use:       "shuffle [on|off]",
	Short:     "Toggle or set shuffle",
	Long:      `Turn shuffle on or off. Without an argument shuffle is toggled from its last known state in this session, which starts off.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runShuffle,
}

var loopCmd = &cobra.Command{
	Use:       "loop [off|all|one]",
	Short:     "Cycle or set the loop mode",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"off", "all", "one"},
	RunE:      runLoop,
}

var modeCmd = &cobra.Command{
	Use:   "mode [name]",
	Short: "Show or set the play mode",
	Long: `Show the device's play mode, or switch it.

Modes: single_loop, all_loop, random, single, sequential. The server's
names (全部循环, 单曲循环, ...) and play_type indexes 0-4 are accepted too.
Use "next" to cycle.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMode,
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")
	volumeCmd.MarkFlagsMutuallyExclusive("up", "down")

	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(shuffleCmd)
	rootCmd.AddCommand(loopCmd)
	rootCmd.AddCommand(modeCmd)
}

// playingStore connects and loads the current playback state.
func playingStore(ctx context.Context) (*store.Store, error) {
	st, err := connectDevice(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.LoadCurrentMusic(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func printPlayback(st *store.Store, fallback string) error {
	snap := st.Snapshot()
	status := "stopped"
	if snap.IsPlaying {
		status = "playing"
	}
	if JSONOutput() {
		return printJSON(map[string]any{
			"status":   status,
			"track":    snap.TrackName(),
			"playlist": currentPlaylist(snap),
		})
	}
	if name := snap.TrackName(); name != "" && snap.IsPlaying {
		fmt.Printf("▶ %s\n", name)
		return nil
	}
	fmt.Println(fallback)
	return nil
}

func currentPlaylist(snap store.State) string {
	if snap.CurrentMusic == nil {
		return ""
	}
	return snap.CurrentMusic.Playlist
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := playingStore(ctx)
	if err != nil {
		return err
	}
	if err := st.TogglePlayPause(ctx); err != nil {
		return err
	}
	return printPlayback(st, "⏸ Paused")
}

func runPause(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := playingStore(ctx)
	if err != nil {
		return err
	}
	if st.IsPlaying() {
		if err := st.TogglePlayPause(ctx); err != nil {
			return err
		}
	}
	return printPlayback(st, "⏸ Paused")
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := playingStore(ctx)
	if err != nil {
		return err
	}
	if !st.IsPlaying() {
		if err := st.TogglePlayPause(ctx); err != nil {
			return err
		}
	}
	return printPlayback(st, "⏸ Not playing")
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	if err := st.PlayNext(ctx); err != nil {
		return err
	}
	return printPlayback(st, "⏭ Skipped")
}

func runPrev(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	if err := st.PlayPrevious(ctx); err != nil {
		return err
	}
	return printPlayback(st, "⏮ Previous")
}

func runVolume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	if err := st.LoadVolume(ctx); err != nil {
		return err
	}

	level := st.Snapshot().Volume
	change := true
	switch {
	case len(args) == 1:
		level, err = strconv.Atoi(args[0])
		if err != nil {
			return errors.Newf("invalid volume %q: must be a number from 0 to 100", args[0])
		}
	case volumeUp:
		level += volumeStep
	case volumeDown:
		level -= volumeStep
	default:
		change = false
	}

	if change {
		level = player.ClampVolume(level)
		if err := st.SetVolume(level); err != nil {
			return err
		}
		if err := st.SetVolumeEnd(ctx, level); err != nil {
			return err
		}
	}

	volume := st.Snapshot().Volume
	if JSONOutput() {
		return printJSON(map[string]int{"volume": volume})
	}
	fmt.Printf("🔊 Volume: %d%%\n", volume)
	return nil
}

func runShuffle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		switch args[0] {
		case "on":
			err = st.SetShuffle(ctx, true)
		case "off":
			err = st.SetShuffle(ctx, false)
		default:
			return errors.Newf("invalid shuffle state %q: use on or off", args[0])
		}
	} else {
		err = st.ToggleShuffle(ctx)
	}
	if err != nil {
		return err
	}

	on := st.Snapshot().Shuffle
	if JSONOutput() {
		return printJSON(map[string]bool{"shuffle": on})
	}
	if on {
		fmt.Println("🔀 Shuffle on")
	} else {
		fmt.Println("➡️  Shuffle off")
	}
	return nil
}

func runLoop(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		mode, perr := core.ParseLoopMode(args[0])
		if perr != nil {
			return perr
		}
		err = st.SetLoop(ctx, mode)
	} else {
		err = st.ToggleLoop(ctx)
	}
	if err != nil {
		return err
	}

	loop := st.Snapshot().Loop
	if JSONOutput() {
		return printJSON(map[string]string{"loop": loop.String()})
	}
	fmt.Printf("🔁 Loop: %s\n", loop)
	return nil
}

func runMode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if args[0] == "next" {
			err = st.CyclePlayMode(ctx)
		} else {
			mode, perr := core.ParsePlayMode(args[0])
			if perr != nil {
				return perr
			}
			err = st.SetPlayMode(ctx, mode)
		}
		if err != nil {
			return err
		}
	}

	mode := st.Snapshot().PlayMode
	if JSONOutput() {
		return printJSON(map[string]any{
			"mode":  mode.String(),
			"label": mode.Label(),
			"index": core.IndexForMode(mode),
		})
	}
	fmt.Printf("Play mode: %s (%s)\n", mode.Label(), mode)
	return nil
}
