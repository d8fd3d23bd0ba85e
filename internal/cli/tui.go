package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/logger"
	"github.com/tessro/soundscape/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui", "dashboard"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Now Playing - current track, progress, volume, modes
  • Playlists - the server's playlists
  • Tracks - the selected playlist or search results
  • Devices - the server's speakers

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Pause
  n / p        Next / previous track
  +/-          Volume up/down
  s / l / m    Shuffle / loop / play mode
  r            Refresh music list
  Enter        Play or select
  d            Save selected device as default
  y            Copy track URL
  x            Dismiss error
  Tab          Switch panel`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Console logging would tear the alternate screen.
	if !logger.ToFile() {
		logger.Discard()
	}

	st, err := newStore()
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), st, tui.Options{
		Theme:           cfg.TUI.Theme,
		HideHelp:        cfg.TUI.HideHelp,
		PollInterval:    time.Duration(cfg.Poll.Interval) * time.Millisecond,
		ResyncInterval:  time.Duration(cfg.Poll.ResyncInterval) * time.Second,
		DefaultDevice:   requestedDevice(),
		DefaultPlaylist: cfg.Defaults.Playlist,
		ConfigPath:      getConfigPath(),
	})
}
