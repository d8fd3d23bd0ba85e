package cli

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	apperrors "github.com/tessro/soundscape/internal/errors"
	"github.com/tessro/soundscape/internal/store"
)

var playlistsCmd = &cobra.Command{
	Use:     "playlists",
	Aliases: []string{"lists"},
	Short:   "List playlists",
	Args:    cobra.NoArgs,
	RunE:    runPlaylists,
}

var tracksCmd = &cobra.Command{
	Use:   "tracks [playlist]",
	Short: "List the tracks of a playlist",
	Long:  `List the tracks of a playlist. Without an argument the last playlist is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTracks,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rescan the music library",
	Long:  `Ask the server to rescan its music directory, then reload the playlists.`,
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(playlistsCmd)
	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(refreshCmd)
}

type playlistJSON struct {
	Name   string `json:"name"`
	Tracks int    `json:"tracks"`
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	st, err := newStore()
	if err != nil {
		return err
	}
	if err := st.LoadMusicList(cmd.Context()); err != nil {
		return err
	}
	return printPlaylists(st.Snapshot())
}

func printPlaylists(snap store.State) error {
	names := snap.Playlists.Names()
	if JSONOutput() {
		out := make([]playlistJSON, 0, len(names))
		for _, n := range names {
			tracks, _ := snap.Playlists.Get(n)
			out = append(out, playlistJSON{Name: n, Tracks: len(tracks)})
		}
		return printJSON(out)
	}

	if len(names) == 0 {
		fmt.Println("No playlists")
		return nil
	}
	table := NewTable("PLAYLIST", "TRACKS")
	for _, n := range names {
		tracks, _ := snap.Playlists.Get(n)
		table.Row(n, strconv.Itoa(len(tracks)))
	}
	table.Flush()
	return nil
}

func runTracks(cmd *cobra.Command, args []string) error {
	st, err := newStore()
	if err != nil {
		return err
	}
	if err := st.LoadMusicList(cmd.Context()); err != nil {
		return err
	}

	lists := st.Snapshot().Playlists
	var name string
	var ok bool
	if len(args) == 1 {
		name, ok = lists.Find(args[0])
		if !ok {
			return errors.Mark(errors.Newf("playlist %q not found", args[0]), apperrors.ErrPlaylistNotFound)
		}
	} else if name, ok = lists.Last(); !ok {
		return errors.Mark(errors.New("the server has no playlists"), apperrors.ErrPlaylistNotFound)
	}
	st.SetPlaylist(name)

	tracks := st.Snapshot().MusicList
	if JSONOutput() {
		return printJSON(map[string]any{"playlist": name, "tracks": tracks.Names()})
	}

	fmt.Printf("%s (%d tracks)\n\n", name, len(tracks))
	for i, n := range tracks.Names() {
		fmt.Printf("%4d  %s\n", i+1, n)
	}
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	if err := st.RefreshMusicList(ctx); err != nil {
		return err
	}
	if JSONOutput() {
		return printPlaylists(st.Snapshot())
	}
	fmt.Printf("✓ Music list refreshed (%d playlists)\n", st.Snapshot().Playlists.Len())
	return nil
}
