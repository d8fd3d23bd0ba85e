package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
	"github.com/tessro/soundscape/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long: `Shows the track, progress, volume and play mode of the selected device.
What could be fetched is shown even when part of the status fails.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusJSON struct {
	Device    string        `json:"device"`
	Name      string        `json:"name"`
	IsPlaying bool          `json:"is_playing"`
	Track     string        `json:"track,omitempty"`
	Playlist  string        `json:"playlist,omitempty"`
	Progress  core.Progress `json:"progress"`
	Volume    int           `json:"volume"`
	PlayMode  string        `json:"play_mode"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	var res apperrors.PartialResult[store.State]
	res.AddError(st.LoadCurrentMusic(ctx))
	res.AddError(st.LoadVolume(ctx))
	res.Data = st.Snapshot()
	for _, err := range res.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	snap := res.Data
	if JSONOutput() {
		device, _ := snap.Device()
		return printJSON(statusJSON{
			Device:    snap.SelectedDevice,
			Name:      device.Name,
			IsPlaying: snap.IsPlaying,
			Track:     snap.TrackName(),
			Playlist:  currentPlaylist(snap),
			Progress:  snap.Progress,
			Volume:    snap.Volume,
			PlayMode:  snap.PlayMode.String(),
		})
	}

	printStatus(snap)
	return nil
}

func printStatus(snap store.State) {
	device, _ := snap.Device()

	if snap.TrackName() == "" {
		fmt.Println("No track playing")
	} else {
		icon := "⏸"
		if snap.IsPlaying {
			icon = "▶"
		}
		fmt.Printf("%s %s\n", icon, snap.TrackName())
		if pl := currentPlaylist(snap); pl != "" {
			fmt.Printf("    from %s\n", pl)
		}
		if snap.Progress.Duration > 0 {
			fmt.Printf("    %s %s / %s\n",
				FormatProgress(snap.Progress.Fraction(), 20),
				FormatDuration(int(snap.Progress.Offset)),
				FormatDuration(int(snap.Progress.Duration)))
		}
	}

	fmt.Printf("    📱 %s (🔊 %d%%) · %s\n", device.Label(), snap.Volume, snap.PlayMode.Label())
}
