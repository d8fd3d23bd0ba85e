package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
	"github.com/tessro/soundscape/internal/store"
	"github.com/tessro/soundscape/internal/wizard"
)

var searchPlay bool

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search track names",
	Long: `Search the server's track names. Without a term an interactive search
opens on a terminal and the chosen track is played.

Examples:
  soundscape search 晴天          # List matching tracks
  soundscape search 晴天 --play   # Play the first match
  soundscape search               # Interactive search`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchPlay, "play", "p", false, "play the first match")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	term := strings.TrimSpace(strings.Join(args, " "))

	if term == "" {
		return runInteractiveSearch(ctx)
	}

	st, err := newStore()
	if err != nil {
		return err
	}
	result, err := st.SubmitSearch(ctx, term)
	if err != nil {
		return err
	}
	tracks := result.Tracks
	if !result.IsList {
		tracks = core.TrackList{}
	}

	if searchPlay {
		if len(tracks) == 0 {
			return errors.Mark(errors.Newf("no tracks match %q", term), apperrors.ErrTrackNotFound)
		}
		return playFromDefaultList(ctx, tracks.Names()[0])
	}

	if JSONOutput() {
		return printJSON(map[string]any{"term": term, "tracks": tracks.Names()})
	}
	if len(tracks) == 0 {
		fmt.Printf("No tracks match %q\n", term)
		return nil
	}
	for _, n := range tracks.Names() {
		fmt.Println(n)
	}
	return nil
}

func runInteractiveSearch(ctx context.Context) error {
	st, err := newStore()
	if err != nil {
		return err
	}

	ia := wizard.NewInteractive()
	ia.SetEnabled(!JSONOutput())
	if !ia.CanInteract() {
		return errors.New("search term required")
	}
	ia.SetSearchFunc(searchFunc(ctx, st))

	track, err := ia.PromptSearch()
	if err != nil || track == "" {
		return err
	}
	return playFromDefaultList(ctx, track)
}

func searchFunc(ctx context.Context, st *store.Store) wizard.SearchFunc {
	return func(query string) (core.TrackList, error) {
		result, err := st.SubmitSearch(ctx, query)
		if err != nil {
			return nil, err
		}
		return result.Tracks, nil
	}
}

// playFromDefaultList plays a search hit. Search covers every track, so the
// hit is played from the default list.
func playFromDefaultList(ctx context.Context, track string) error {
	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	if err := st.LoadMusicList(ctx); err != nil {
		return err
	}
	playlist, _, ok := st.Snapshot().Playlists.DefaultList()
	if !ok {
		return errors.Mark(errors.New("the server has no playlists"), apperrors.ErrPlaylistNotFound)
	}
	return playAndReport(ctx, st, playlist, track)
}
