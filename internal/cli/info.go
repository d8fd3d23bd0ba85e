package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/store"
)

var infoCmd = &cobra.Command{
	Use:   "info [name]",
	Short: "Show a track's URL and tags",
	Long:  `Show the stream URL and tags of a track, or of the current track when no name is given.`,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := strings.Join(args, " ")

	var st *store.Store
	var err error
	if name == "" {
		st, err = playingStore(ctx)
	} else {
		st, err = newStore()
	}
	if err != nil {
		return err
	}

	info, err := st.LoadMusicInfo(ctx, name)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(info)
	}

	fmt.Println(info.Name)
	fields := []struct{ label, value string }{
		{"Title", info.Tags.Title},
		{"Artist", info.Tags.Artist},
		{"Album", info.Tags.Album},
		{"Year", info.Tags.Year},
		{"Genre", info.Tags.Genre},
		{"URL", info.URL},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Printf("  %-7s %s\n", f.label+":", f.value)
		}
	}
	return nil
}
