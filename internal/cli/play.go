package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
	"github.com/tessro/soundscape/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play [playlist] [track]",
	Short: "Play a playlist or track",
	Long: `Play a playlist from its start, or a track from a playlist.

With one argument that is not a playlist name, the track is looked up in
the default list. Names match case-insensitively.

Examples:
  soundscape play                  # Play the default list
  soundscape play Rock             # Play the Rock playlist
  soundscape play Rock "晴天.mp3"   # Play a track from Rock
  soundscape play "晴天.mp3"        # Play a track from the default list`,
	Args: cobra.MaximumNArgs(2),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	if err := st.LoadMusicList(ctx); err != nil {
		return err
	}

	playlist, track, err := resolvePlay(st.Snapshot().Playlists, args)
	if err != nil {
		return err
	}
	return playAndReport(ctx, st, playlist, track)
}

func playAndReport(ctx context.Context, st *store.Store, playlist, track string) error {
	if err := st.PlayMusicFromPlaylist(ctx, playlist, track); err != nil {
		return err
	}
	fallback := "▶ " + playlist
	if track != "" {
		fallback = "▶ " + track
	}
	return printPlayback(st, fallback)
}

// resolvePlay turns play arguments into a playlist and track name. An empty
// track plays the list from its start.
func resolvePlay(lists core.Playlists, args []string) (string, string, error) {
	defaultName, defaultTracks, ok := lists.DefaultList()
	if !ok {
		return "", "", errors.Mark(errors.New("the server has no playlists"), apperrors.ErrPlaylistNotFound)
	}

	switch len(args) {
	case 0:
		return defaultName, "", nil

	case 1:
		if name, ok := lists.Find(args[0]); ok {
			return name, "", nil
		}
		if track, ok := defaultTracks.Find(args[0]); ok {
			return defaultName, track, nil
		}
		return "", "", errors.Mark(errors.Newf("no playlist or track named %q", args[0]), apperrors.ErrPlaylistNotFound)

	default:
		name, ok := lists.Find(args[0])
		if !ok {
			return "", "", errors.Mark(errors.Newf("playlist %q not found", args[0]), apperrors.ErrPlaylistNotFound)
		}
		tracks, _ := lists.Get(name)
		track, ok := tracks.Find(args[1])
		if !ok {
			return "", "", errors.Mark(errors.Newf("track %q not found in %s", args[1], name), apperrors.ErrTrackNotFound)
		}
		return name, track, nil
	}
}
