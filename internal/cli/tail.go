package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch the selected device and print playback changes as they happen.

Events tracked:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song skipped before completion)
  - Pause/Resume
  - Volume changes
  - Playlist changes

The --format flag takes a Go template over the event fields, e.g.
  soundscape tail -f '{{.Time}} {{.Type}} {{.Track}}'`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default from tail.interval)")

	rootCmd.AddCommand(tailCmd)
}

// tailFormatter merges the [tail] config with flags; flags win when set.
func tailFormatter(cmd *cobra.Command) (*tail.Formatter, error) {
	noEmoji := cfg.Tail.NoEmoji
	if cmd.Flags().Changed("no-emoji") {
		noEmoji = tailNoEmoji
	}
	timestamp := cfg.Tail.Timestamp || tailTimestamp
	format := cfg.Tail.Format
	if tailFormat != "" {
		format = tailFormat
	}

	opts := []tail.FormatterOption{
		tail.WithEmoji(!noEmoji),
		tail.WithTimestamp(timestamp),
	}
	if format != "" {
		tmpl, err := tail.ParseTemplate(format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tail.WithTemplate(tmpl))
	}
	return tail.NewFormatter(opts...), nil
}

func runTail(cmd *cobra.Command, args []string) error {
	formatter, err := tailFormatter(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	st, err := connectDevice(ctx)
	if err != nil {
		return err
	}
	p, err := newPlayer()
	if err != nil {
		return err
	}

	interval := tailInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Tail.Interval) * time.Millisecond
	}
	watcher := tail.NewWatcher(p, st.SelectedDevice(), interval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for event := range watcher.Events() {
		if JSONOutput() {
			line, err := formatter.FormatJSON(event)
			if err != nil {
				return err
			}
			fmt.Println(line)
			continue
		}
		fmt.Println(formatter.Format(event))
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
