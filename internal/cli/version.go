package cli

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
)

// Build metadata, set with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Server    string `json:"server,omitempty"`
	ServerURL string `json:"server_url"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client and server versions",
	Long:  `Print the client build, and the server version when the server answers within a few seconds.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:   Version,
			Commit:    Commit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			Server:    serverVersion(cmd.Context()),
			ServerURL: cfg.Server.URL,
		}
		if JSONOutput() {
			return printJSON(info)
		}
		printVersion(info)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(info versionInfo) {
	server := info.Server
	if server == "" {
		server = "unreachable"
	}
	fmt.Printf("client  %s\n", info.Version)
	fmt.Printf("server  %s (%s)\n", server, info.ServerURL)
	if !Verbose() {
		return
	}
	fmt.Printf("\ncommit  %s\nbuilt   %s\ngo      %s %s\n", info.Commit, info.BuildDate, info.GoVersion, info.Platform)
}

// serverVersion returns "" when the server does not answer in time.
func serverVersion(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	st, err := newStore()
	if err != nil {
		return ""
	}
	v, err := st.GetVersion(ctx)
	if err != nil {
		return ""
	}
	return v
}
